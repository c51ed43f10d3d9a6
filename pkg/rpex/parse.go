package rpex

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind identifies the primitive that rejected the input.
type ErrorKind int

const (
	KindDigit      ErrorKind = iota + 1 // expected a base-10 numeral
	KindChar                            // expected a separator character
	KindCount                           // fewer elements than required
	KindEOF                             // trailing input was not consumed
	KindOverflow                        // numeral does not fit in 32 bits
	KindZeroLength                      // rectangle length must be positive
)

func (k ErrorKind) String() string {
	switch k {
	case KindDigit:
		return "Digit"
	case KindChar:
		return "Char"
	case KindCount:
		return "ManyMN"
	case KindEOF:
		return "Eof"
	case KindOverflow:
		return "Overflow"
	case KindZeroLength:
		return "ZeroLength"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError reports where parsing stopped and why.
//
// A non-fatal error lets combinators backtrack and try an alternative (an
// optional element, the end of a list). A fatal error aborts the whole
// parse.
type ParseError struct {
	Input string    // unconsumed input at the failure point
	Code  ErrorKind // primitive that failed
	Fatal bool
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("parse error: %s at end of input", e.Code)
	}
	return fmt.Sprintf("parse error: %s at %q", e.Code, e.Input)
}

// Parser consumes a prefix of input and returns the rest.
// On error the returned rest is the original input.
type Parser[T any] func(input string) (rest string, value T, err error)

// Option is a value that may be absent.
type Option[T any] struct {
	Value T
	Set   bool
}

func recoverable(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && !pe.Fatal
}

// Char matches a single byte.
func Char(c byte) Parser[byte] {
	return func(input string) (string, byte, error) {
		if len(input) == 0 || input[0] != c {
			return input, 0, &ParseError{Input: input, Code: KindChar}
		}
		return input[1:], c, nil
	}
}

// Uint32 matches an unsigned base-10 numeral. A missing numeral is a
// recoverable error; a numeral that overflows is fatal.
func Uint32(input string) (string, uint32, error) {
	n := 0
	for n < len(input) && input[n] >= '0' && input[n] <= '9' {
		n++
	}
	if n == 0 {
		return input, 0, &ParseError{Input: input, Code: KindDigit}
	}
	v, err := strconv.ParseUint(input[:n], 10, 32)
	if err != nil {
		return input, 0, &ParseError{Input: input, Code: KindOverflow, Fatal: true}
	}
	return input[n:], uint32(v), nil
}

// Opt turns a recoverable failure of p into an unset Option.
func Opt[T any](p Parser[T]) Parser[Option[T]] {
	return func(input string) (string, Option[T], error) {
		rest, v, err := p(input)
		if err != nil {
			if recoverable(err) {
				return input, Option[T]{}, nil
			}
			return input, Option[T]{}, err
		}
		return rest, Option[T]{Value: v, Set: true}, nil
	}
}

// SeparatedListMN parses between min and max elements (inclusive)
// separated by sep. Parsing stops once max elements are read even if more
// would match. With min == 0 a first element that fails recoverably
// yields an empty list. Bounds that admit no count fail with KindCount
// unless min is zero.
func SeparatedListMN[T, S any](min, max int, sep Parser[S], elem Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		if max < 1 || max < min {
			if min > 0 {
				return input, nil, &ParseError{Input: input, Code: KindCount}
			}
			return input, nil, nil
		}
		rest, head, err := elem(input)
		if err != nil {
			if min == 0 && recoverable(err) {
				return input, nil, nil
			}
			return input, nil, err
		}

		out := []T{head}
		for len(out) < max {
			afterSep, _, err := sep(rest)
			if err != nil {
				if recoverable(err) {
					break
				}
				return input, nil, err
			}
			next, v, err := elem(afterSep)
			if err != nil {
				if recoverable(err) {
					break
				}
				return input, nil, err
			}
			if len(next) == len(rest) {
				break
			}
			out = append(out, v)
			rest = next
		}

		if len(out) < min {
			return input, nil, &ParseError{Input: rest, Code: KindCount}
		}
		return rest, out, nil
	}
}

// AllConsuming runs p and fails unless it consumed the entire input.
func AllConsuming[T any](p Parser[T], input string) (T, error) {
	rest, v, err := p(input)
	if err != nil {
		var zero T
		return zero, err
	}
	if rest != "" {
		var zero T
		return zero, &ParseError{Input: rest, Code: KindEOF}
	}
	return v, nil
}
