// Package layout provides the serialized form of a solved ratio expression.
//
// A [Layout] captures everything a display collaborator needs to realize a
// split: the input ratio and rectangle, the resolved scale, and one [Cell]
// per partition with its geometry in both ratio units and pixels. Layouts
// are written as JSON (the default wire format) or YAML.
//
//	ratio, _ := rpex.Plane.ParseRatio("1+2:")
//	rect, _ := rpex.Plane.ParseRectangle("1920x1080")
//	l, err := layout.Compute(ratio, rect)
//	data, _ := layout.Marshal(l, layout.FormatJSON)
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xrpex/xrpex/pkg/rpex"
)

// Serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Layout is a solved ratio expression.
type Layout struct {
	Ratio     string   `json:"ratio" yaml:"ratio"`
	Solved    string   `json:"solved" yaml:"solved"`
	Rectangle []uint32 `json:"rectangle" yaml:"rectangle"`
	Scale     uint32   `json:"scale" yaml:"scale"`
	Cells     []Cell   `json:"cells" yaml:"cells"`
}

// Cell is one partition of the rectangle.
type Cell struct {
	// Name is the pixel position joined by '-', unique within a layout.
	Name string `json:"name" yaml:"name"`

	// Ratio units
	Position []uint32 `json:"position" yaml:"position"`
	Size     []uint32 `json:"size" yaml:"size"`

	// Pixels
	PixelPosition []uint32 `json:"pixel_position" yaml:"pixel_position"`
	PixelSize     []uint32 `json:"pixel_size" yaml:"pixel_size"`
}

// Compute evaluates ratio on rect and collects every partition.
func Compute(ratio rpex.IndeterminateSumsInRatio, rect rpex.HyperRectangle) (Layout, error) {
	solved, scale, err := ratio.Evaluate(rect)
	if err != nil {
		return Layout{}, err
	}

	l := Layout{
		Ratio:     ratio.String(),
		Solved:    solved.String(),
		Rectangle: rect.Lengths(),
		Scale:     scale,
		Cells:     make([]Cell, 0, solved.Len()),
	}
	for p := range solved.Partitions() {
		px := p.Scaled(scale)
		l.Cells = append(l.Cells, Cell{
			Name:          CellName(px.Position),
			Position:      p.Position,
			Size:          p.Size,
			PixelPosition: px.Position,
			PixelSize:     px.Size,
		})
	}
	return l, nil
}

// CellName joins a pixel position with '-'.
func CellName(position []uint32) string {
	parts := make([]string, len(position))
	for i, v := range position {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, "-")
}

// Validate checks that the cells exactly tile the rectangle: every cell
// lies inside it at the layout's scale, no two cells overlap, and their
// volumes add up to its volume.
func (l Layout) Validate() error {
	if len(l.Rectangle) == 0 {
		return fmt.Errorf("layout has no rectangle")
	}
	if l.Scale == 0 {
		return fmt.Errorf("layout has zero scale")
	}

	dims := len(l.Rectangle)
	var want uint64 = 1
	for _, length := range l.Rectangle {
		want *= uint64(length)
	}

	var got uint64
	for i, c := range l.Cells {
		if len(c.Position) != dims || len(c.Size) != dims ||
			len(c.PixelPosition) != dims || len(c.PixelSize) != dims {
			return fmt.Errorf("cell %d: expected %d dimensions", i, dims)
		}
		volume := uint64(1)
		for axis, length := range l.Rectangle {
			if uint64(c.Position[axis])*uint64(l.Scale) != uint64(c.PixelPosition[axis]) ||
				uint64(c.Size[axis])*uint64(l.Scale) != uint64(c.PixelSize[axis]) {
				return fmt.Errorf("cell %d: axis %d pixels do not match scale %d", i, axis, l.Scale)
			}
			if c.PixelSize[axis] == 0 {
				return fmt.Errorf("cell %d: axis %d is empty", i, axis)
			}
			if uint64(c.PixelPosition[axis])+uint64(c.PixelSize[axis]) > uint64(length) {
				return fmt.Errorf("cell %d: axis %d extends past %d", i, axis, length)
			}
			volume *= uint64(c.PixelSize[axis])
		}
		for j := range i {
			if overlaps(l.Cells[j], c) {
				return fmt.Errorf("cell %d overlaps cell %d", i, j)
			}
		}
		got += volume
	}

	if got != want {
		return fmt.Errorf("cells cover %d of %d", got, want)
	}
	return nil
}

// overlaps reports whether a and b share interior on every axis.
func overlaps(a, b Cell) bool {
	for axis := range a.PixelPosition {
		aStart, aEnd := uint64(a.PixelPosition[axis]), uint64(a.PixelPosition[axis])+uint64(a.PixelSize[axis])
		bStart, bEnd := uint64(b.PixelPosition[axis]), uint64(b.PixelPosition[axis])+uint64(b.PixelSize[axis])
		if aStart >= bEnd || bStart >= aEnd {
			return false
		}
	}
	return true
}

// Marshal serializes l in the given format.
func Marshal(l Layout, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(l, "", "  ")
	case FormatYAML:
		return yaml.Marshal(l)
	default:
		return nil, fmt.Errorf("unsupported layout format %q", format)
	}
}

// Unmarshal parses data in the given format and validates the result.
func Unmarshal(data []byte, format string) (Layout, error) {
	var l Layout
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &l)
	case FormatYAML:
		err = yaml.Unmarshal(data, &l)
	default:
		return Layout{}, fmt.Errorf("unsupported layout format %q", format)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout: %w", err)
	}
	return l, nil
}

// WriteFile writes l to path, picking YAML for .yaml/.yml and JSON otherwise.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l, FormatForPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a layout written by WriteFile.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	return Unmarshal(data, FormatForPath(path))
}

// FormatForPath returns the serialization format implied by a file name.
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}
