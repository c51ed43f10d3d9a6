package rpex

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Addend is one position of an indeterminate dimension sum.
// An unset Addend is an unknown to be solved.
type Addend = Option[uint32]

// Known returns a known addend.
func Known(n uint32) Addend { return Addend{Value: n, Set: true} }

// Unknown returns an addend to be solved.
func Unknown() Addend { return Addend{} }

// OverflowError reports a scaled addend that no longer fits in 32 bits.
type OverflowError struct {
	Addend uint32
	Factor uint32
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("addend %d scaled by %d overflows", e.Addend, e.Factor)
}

// ExceedsLengthError reports known addends that already add up to more
// than the axis total, leaving a negative amount for the unknowns.
type ExceedsLengthError struct {
	Known uint64
	Total uint64
}

func (e *ExceedsLengthError) Error() string {
	return fmt.Sprintf("known addends sum to %d, exceeding total %d", e.Known, e.Total)
}

// IndeterminateDimensionSum is the ratio along one axis, possibly with
// unknown addends.
type IndeterminateDimensionSum struct {
	addends []Addend
}

// NewIndeterminateDimensionSum builds a sum from addends. At least one
// addend is required; an empty call yields a single unknown, matching
// the parse of "".
func NewIndeterminateDimensionSum(addends ...Addend) IndeterminateDimensionSum {
	if len(addends) == 0 {
		return IndeterminateDimensionSum{addends: []Addend{Unknown()}}
	}
	return IndeterminateDimensionSum{addends: append([]Addend(nil), addends...)}
}

var dimensionSumParser = SeparatedListMN(1, math.MaxInt, Char('+'), Opt[uint32](Uint32))

func parseDimensionSum(input string) (string, IndeterminateDimensionSum, error) {
	rest, addends, err := dimensionSumParser(input)
	if err != nil {
		return input, IndeterminateDimensionSum{}, err
	}
	return rest, IndeterminateDimensionSum{addends: addends}, nil
}

// ParseDimensionSum parses "addend? ('+' addend?)*" consuming all of text.
func ParseDimensionSum(text string) (IndeterminateDimensionSum, error) {
	return AllConsuming[IndeterminateDimensionSum](parseDimensionSum, text)
}

// Addends returns a copy of the addends in order.
func (s IndeterminateDimensionSum) Addends() []Addend {
	return append([]Addend(nil), s.addends...)
}

// Unknowns counts the addends left to solve.
func (s IndeterminateDimensionSum) Unknowns() int {
	n := 0
	for _, a := range s.addends {
		if !a.Set {
			n++
		}
	}
	return n
}

// SumKnowns adds up the known addends.
func (s IndeterminateDimensionSum) SumKnowns() uint64 {
	var sum uint64
	for _, a := range s.addends {
		if a.Set {
			sum += uint64(a.Value)
		}
	}
	return sum
}

// InferScale returns the scale that fits a fully known sum to length.
// ok is false when the sum has unknowns, since length alone cannot fix
// both the scale and the unknowns.
func (s IndeterminateDimensionSum) InferScale(length uint32) (scale uint32, ok bool, err error) {
	if s.Unknowns() != 0 {
		return 0, false, nil
	}
	q, err := Divide(uint64(length), s.SumKnowns())
	if err != nil {
		return 0, false, err
	}
	return uint32(q), true, nil
}

// Scale multiplies every known addend by factor.
func (s IndeterminateDimensionSum) Scale(factor uint32) (IndeterminateDimensionSum, error) {
	out := make([]Addend, len(s.addends))
	for i, a := range s.addends {
		if !a.Set {
			continue
		}
		v := uint64(a.Value) * uint64(factor)
		if v > math.MaxUint32 {
			return IndeterminateDimensionSum{}, &OverflowError{Addend: a.Value, Factor: factor}
		}
		out[i] = Known(uint32(v))
	}
	return IndeterminateDimensionSum{addends: out}, nil
}

// Evaluate solves the unknowns so the sum covers length at the given
// scale. All unknowns receive the same value. A sum without unknowns is
// returned as is; checking it against length is the caller's job.
func (s IndeterminateDimensionSum) Evaluate(length, scale uint32) (DimensionSum, error) {
	total, err := Divide(uint64(length), uint64(scale))
	if err != nil {
		return DimensionSum{}, err
	}

	unknowns := s.Unknowns()
	if unknowns == 0 {
		addends := make([]uint32, len(s.addends))
		for i, a := range s.addends {
			addends[i] = a.Value
		}
		return DimensionSum{addends: addends}, nil
	}

	known := s.SumKnowns()
	if known > total {
		return DimensionSum{}, &ExceedsLengthError{Known: known, Total: total}
	}
	solution, err := Divide(total-known, uint64(unknowns))
	if err != nil {
		return DimensionSum{}, err
	}

	addends := make([]uint32, len(s.addends))
	for i, a := range s.addends {
		if a.Set {
			addends[i] = a.Value
		} else {
			addends[i] = uint32(solution)
		}
	}
	return DimensionSum{addends: addends}, nil
}

// String renders the sum; unknowns become empty fields.
func (s IndeterminateDimensionSum) String() string {
	parts := make([]string, len(s.addends))
	for i, a := range s.addends {
		if a.Set {
			parts[i] = strconv.FormatUint(uint64(a.Value), 10)
		}
	}
	return strings.Join(parts, "+")
}

// DimensionSum is a solved axis ratio.
type DimensionSum struct {
	addends []uint32
}

// AddendWithOffset pairs an addend with the sum of the addends before it.
type AddendWithOffset struct {
	Addend uint32
	Offset uint32
}

// Addends returns a copy of the solved addends.
func (s DimensionSum) Addends() []uint32 {
	return append([]uint32(nil), s.addends...)
}

// Len is the number of addends.
func (s DimensionSum) Len() int { return len(s.addends) }

// Sum adds up all addends.
func (s DimensionSum) Sum() uint64 {
	var sum uint64
	for _, a := range s.addends {
		sum += uint64(a)
	}
	return sum
}

// WithOffsets yields each addend with its exclusive prefix sum.
// The sequence can be ranged over any number of times.
func (s DimensionSum) WithOffsets() iter.Seq[AddendWithOffset] {
	return func(yield func(AddendWithOffset) bool) {
		var offset uint32
		for _, a := range s.addends {
			if !yield(AddendWithOffset{Addend: a, Offset: offset}) {
				return
			}
			offset += a
		}
	}
}

func (s DimensionSum) String() string {
	parts := make([]string, len(s.addends))
	for i, a := range s.addends {
		parts[i] = strconv.FormatUint(uint64(a), 10)
	}
	return strings.Join(parts, "+")
}
