// Package rpex parses ratio expressions and solves them against a rectangle.
//
// A ratio expression ("rpex") describes how to split a D-dimensional
// rectangle into a grid of cells. Each axis gets a dimension sum: a
// '+'-separated list of integer addends in which any addend may be left
// empty to mark it as unknown. Axes are separated by ':'.
//
//	1+2:3      two columns of width 1 and 2 units, one row of 3 units
//	+:1+1      two equal unknown columns, two equal rows
//	1++1:      a wide unknown middle column between two 1-unit ones
//
// # Solving
//
// [IndeterminateSumsInRatio.Evaluate] consumes a [HyperRectangle] and
// returns the solved [SumsInRatio] together with an integer scale. Every
// pixel length is an addend multiplied by the scale; nothing is ever
// rounded. Fully known axes each infer a scale from their length and must
// agree; the final scale is the greatest common divisor of that scale and
// every axis length, so cells use the coarsest unit that divides the whole
// rectangle. Unknown addends on an axis all resolve to the same value.
//
// # Dimensionality
//
// The number of axes is fixed by a [Space]. Rectangles and ratios parsed
// through a Space always have exactly that many elements:
//
//	rect, _ := rpex.Plane.ParseRectangle("1920x1080")
//	ratio, _ := rpex.Plane.ParseRatio("1+2:")
//	solved, scale, err := ratio.Evaluate(rect)
//	for p := range solved.Partitions() {
//	    fmt.Println(p.Scaled(scale))
//	}
//
// # Errors
//
// Failures are typed and can be inspected with errors.As: [*ParseError]
// for grammar violations, [*DoesNotDivideError] for inexact division,
// [*UnequalScalesError] when known axes contradict each other, and the
// per-axis wrappers [*InferScaleError] and [*DimensionSumEvaluationError].
package rpex
