package rpex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrZeroDimensions is returned when a Space or value is built with no axes.
var ErrZeroDimensions = errors.New("zero-dimensional spaces are not supported")

// DimensionMismatchError reports values combined across different spaces.
type DimensionMismatchError struct {
	Ratio     int
	Rectangle int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("ratio has %d dimensions but rectangle has %d", e.Ratio, e.Rectangle)
}

// ZeroLengthError reports a rectangle built with an empty axis.
type ZeroLengthError struct {
	Axis int
}

func (e *ZeroLengthError) Error() string {
	return fmt.Sprintf("axis %d: length must be positive", e.Axis)
}

// Space fixes the number of axes for everything parsed through it.
// The zero Space is invalid and rejects every parse.
type Space struct {
	dims int
}

// NewSpace returns a Space with dims axes.
func NewSpace(dims int) (Space, error) {
	if dims < 1 {
		return Space{}, ErrZeroDimensions
	}
	return Space{dims: dims}, nil
}

// MustSpace is like NewSpace but panics on an invalid dimensionality.
func MustSpace(dims int) Space {
	s, err := NewSpace(dims)
	if err != nil {
		panic(fmt.Sprintf("rpex: MustSpace(%d): %v", dims, err))
	}
	return s
}

// Plane is the two-dimensional space of a monitor.
var Plane = MustSpace(2)

// Dims returns the number of axes.
func (s Space) Dims() int { return s.dims }

// rectangleParser parses exactly dims lengths separated by 'x'.
func (s Space) rectangleParser(input string) (string, HyperRectangle, error) {
	rest, lengths, err := SeparatedListMN(s.dims, s.dims, Char('x'), Parser[uint32](Uint32))(input)
	if err != nil {
		return input, HyperRectangle{}, err
	}
	for _, l := range lengths {
		if l == 0 {
			return input, HyperRectangle{}, &ParseError{Input: input, Code: KindZeroLength, Fatal: true}
		}
	}
	return rest, HyperRectangle{lengths: lengths}, nil
}

// ParseRectangle parses "len ('x' len){D-1}" consuming all of text.
func (s Space) ParseRectangle(text string) (HyperRectangle, error) {
	if s.dims < 1 {
		return HyperRectangle{}, ErrZeroDimensions
	}
	return AllConsuming[HyperRectangle](s.rectangleParser, text)
}

// ParseRatio parses "sum (':' sum){D-1}" consuming all of text.
func (s Space) ParseRatio(text string) (IndeterminateSumsInRatio, error) {
	if s.dims < 1 {
		return IndeterminateSumsInRatio{}, ErrZeroDimensions
	}
	p := SeparatedListMN(s.dims, s.dims, Char(':'), Parser[IndeterminateDimensionSum](parseDimensionSum))
	sums, err := AllConsuming(p, text)
	if err != nil {
		return IndeterminateSumsInRatio{}, err
	}
	return IndeterminateSumsInRatio{sums: sums}, nil
}

// HyperRectangle is a box with one positive length per axis.
type HyperRectangle struct {
	lengths []uint32
}

// NewHyperRectangle builds a rectangle from positive lengths.
func NewHyperRectangle(lengths ...uint32) (HyperRectangle, error) {
	if len(lengths) == 0 {
		return HyperRectangle{}, ErrZeroDimensions
	}
	for axis, l := range lengths {
		if l == 0 {
			return HyperRectangle{}, &ZeroLengthError{Axis: axis}
		}
	}
	return HyperRectangle{lengths: append([]uint32(nil), lengths...)}, nil
}

// Dims returns the number of axes.
func (r HyperRectangle) Dims() int { return len(r.lengths) }

// Length returns the length along axis.
func (r HyperRectangle) Length(axis int) uint32 { return r.lengths[axis] }

// Lengths returns a copy of all lengths.
func (r HyperRectangle) Lengths() []uint32 {
	return append([]uint32(nil), r.lengths...)
}

func (r HyperRectangle) String() string {
	parts := make([]string, len(r.lengths))
	for i, l := range r.lengths {
		parts[i] = strconv.FormatUint(uint64(l), 10)
	}
	return strings.Join(parts, "x")
}
