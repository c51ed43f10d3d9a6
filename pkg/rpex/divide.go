package rpex

import "fmt"

// DoesNotDivideError reports a division that would leave a remainder.
type DoesNotDivideError struct {
	Divisor  uint64
	Dividend uint64
}

func (e *DoesNotDivideError) Error() string {
	return fmt.Sprintf("%d does not divide %d", e.Divisor, e.Dividend)
}

// Divide returns dividend/divisor when the division is exact.
// A zero divisor never divides.
func Divide(dividend, divisor uint64) (uint64, error) {
	if divisor == 0 || dividend%divisor != 0 {
		return 0, &DoesNotDivideError{Divisor: divisor, Dividend: dividend}
	}
	return dividend / divisor, nil
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
