package rpex

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// UnequalScalesError reports fully known axes that inferred different
// scales. Scales is sorted and holds each distinct value once.
type UnequalScalesError struct {
	Scales []uint32
}

func (e *UnequalScalesError) Error() string {
	return fmt.Sprintf("inferred scales from dimensions are unequal: %v", e.Scales)
}

// InferScaleError wraps a failure to infer the scale of one axis.
type InferScaleError struct {
	Axis int
	Err  error
}

func (e *InferScaleError) Error() string {
	return fmt.Sprintf("axis %d: division error occurred: %v", e.Axis, e.Err)
}

func (e *InferScaleError) Unwrap() error { return e.Err }

// DimensionSumEvaluationError wraps a failure to solve one axis.
type DimensionSumEvaluationError struct {
	Axis int
	Err  error
}

func (e *DimensionSumEvaluationError) Error() string {
	return fmt.Sprintf("axis %d: unable to evaluate dimension sum: %v", e.Axis, e.Err)
}

func (e *DimensionSumEvaluationError) Unwrap() error { return e.Err }

// IndeterminateSumsInRatio holds one indeterminate sum per axis.
type IndeterminateSumsInRatio struct {
	sums []IndeterminateDimensionSum
}

// NewIndeterminateSumsInRatio builds a ratio from per-axis sums.
func NewIndeterminateSumsInRatio(sums ...IndeterminateDimensionSum) (IndeterminateSumsInRatio, error) {
	if len(sums) == 0 {
		return IndeterminateSumsInRatio{}, ErrZeroDimensions
	}
	return IndeterminateSumsInRatio{sums: append([]IndeterminateDimensionSum(nil), sums...)}, nil
}

// Dims returns the number of axes.
func (r IndeterminateSumsInRatio) Dims() int { return len(r.sums) }

// Sums returns a copy of the per-axis sums.
func (r IndeterminateSumsInRatio) Sums() []IndeterminateDimensionSum {
	return append([]IndeterminateDimensionSum(nil), r.sums...)
}

func (r IndeterminateSumsInRatio) String() string {
	parts := make([]string, len(r.sums))
	for i, s := range r.sums {
		parts[i] = s.String()
	}
	return strings.Join(parts, ":")
}

// Evaluate solves every axis against rect.
//
// Fully known axes each infer a scale; they must all agree (none at all
// means a base of 1). The returned scale is the gcd of that base and every
// length of rect. Known addends are multiplied by base/scale before the
// unknowns are solved, so pixel lengths are always addend*scale.
func (r IndeterminateSumsInRatio) Evaluate(rect HyperRectangle) (SumsInRatio, uint32, error) {
	if r.Dims() != rect.Dims() {
		return SumsInRatio{}, 0, &DimensionMismatchError{Ratio: r.Dims(), Rectangle: rect.Dims()}
	}

	inferred := make(map[uint32]struct{})
	for axis, sum := range r.sums {
		scale, ok, err := sum.InferScale(rect.lengths[axis])
		if err != nil {
			return SumsInRatio{}, 0, &InferScaleError{Axis: axis, Err: err}
		}
		if ok {
			inferred[scale] = struct{}{}
		}
	}

	var base uint32
	switch len(inferred) {
	case 0:
		base = 1
	case 1:
		for s := range inferred {
			base = s
		}
	default:
		return SumsInRatio{}, 0, &UnequalScalesError{Scales: slices.Sorted(maps.Keys(inferred))}
	}

	scale := base
	for _, l := range rect.lengths {
		scale = gcd(scale, l)
	}
	factor := base / scale

	solved := make([]DimensionSum, len(r.sums))
	for axis, sum := range r.sums {
		scaled, err := sum.Scale(factor)
		if err != nil {
			return SumsInRatio{}, 0, &DimensionSumEvaluationError{Axis: axis, Err: err}
		}
		ds, err := scaled.Evaluate(rect.lengths[axis], scale)
		if err != nil {
			return SumsInRatio{}, 0, &DimensionSumEvaluationError{Axis: axis, Err: err}
		}
		solved[axis] = ds
	}

	return SumsInRatio{sums: solved}, scale, nil
}

// SumsInRatio holds one solved sum per axis.
type SumsInRatio struct {
	sums []DimensionSum
}

// Dims returns the number of axes.
func (r SumsInRatio) Dims() int { return len(r.sums) }

// Sum returns the solved sum along axis.
func (r SumsInRatio) Sum(axis int) DimensionSum { return r.sums[axis] }

func (r SumsInRatio) String() string {
	parts := make([]string, len(r.sums))
	for i, s := range r.sums {
		parts[i] = s.String()
	}
	return strings.Join(parts, ":")
}
