package layout

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xrpex/xrpex/pkg/rpex"
)

func compute(t *testing.T, ratio, rect string) Layout {
	t.Helper()
	r, err := rpex.Plane.ParseRatio(ratio)
	if err != nil {
		t.Fatalf("ParseRatio(%q): %v", ratio, err)
	}
	re, err := rpex.Plane.ParseRectangle(rect)
	if err != nil {
		t.Fatalf("ParseRectangle(%q): %v", rect, err)
	}
	l, err := Compute(r, re)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return l
}

func TestCompute(t *testing.T) {
	l := compute(t, "1+2:3", "9x9")

	want := Layout{
		Ratio:     "1+2:3",
		Solved:    "1+2:3",
		Rectangle: []uint32{9, 9},
		Scale:     3,
		Cells: []Cell{
			{
				Name:          "0-0",
				Position:      []uint32{0, 0},
				Size:          []uint32{1, 3},
				PixelPosition: []uint32{0, 0},
				PixelSize:     []uint32{3, 9},
			},
			{
				Name:          "3-0",
				Position:      []uint32{1, 0},
				Size:          []uint32{2, 3},
				PixelPosition: []uint32{3, 0},
				PixelSize:     []uint32{6, 9},
			},
		},
	}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestComputeError(t *testing.T) {
	r, _ := rpex.Plane.ParseRatio("1+2:3")
	re, _ := rpex.Plane.ParseRectangle("9x6")
	if _, err := Compute(r, re); err == nil {
		t.Error("Compute should fail on unequal scales")
	}
}

func TestValidate(t *testing.T) {
	good := compute(t, "1++1:+", "1920x1080")
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Layout)
	}{
		{name: "missing cell", mutate: func(l *Layout) { l.Cells = l.Cells[1:] }},
		{name: "cell out of bounds", mutate: func(l *Layout) { l.Cells[0].PixelPosition[0] = 1920 }},
		{name: "wrong dimensions", mutate: func(l *Layout) { l.Cells[0].PixelSize = []uint32{1} }},
		{name: "no rectangle", mutate: func(l *Layout) { l.Rectangle = nil }},
		{name: "zero scale", mutate: func(l *Layout) { l.Scale = 0 }},
		{name: "size off scale", mutate: func(l *Layout) { l.Cells[0].Size[0]++ }},
		{name: "position off scale", mutate: func(l *Layout) { l.Cells[1].Position[0]++ }},
		{name: "missing ratio units", mutate: func(l *Layout) { l.Cells[0].Position = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := compute(t, "1++1:+", "1920x1080")
			tt.mutate(&l)
			if err := l.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

func TestValidateOverlap(t *testing.T) {
	cell := func(x, w uint32) Cell {
		return Cell{
			Name:          CellName([]uint32{x, 0}),
			Position:      []uint32{x, 0},
			Size:          []uint32{w, 1},
			PixelPosition: []uint32{x, 0},
			PixelSize:     []uint32{w, 1},
		}
	}

	// Volumes sum to 4 but [1,2) is covered twice and [2,3) not at all.
	l := Layout{
		Rectangle: []uint32{4, 1},
		Scale:     1,
		Cells:     []Cell{cell(0, 2), cell(1, 1), cell(3, 1)},
	}
	err := l.Validate()
	if err == nil {
		t.Fatal("Validate should reject overlapping cells")
	}
	if !strings.Contains(err.Error(), "overlaps") {
		t.Errorf("error = %v, want overlap", err)
	}

	l.Cells = []Cell{cell(0, 1), cell(1, 1), cell(2, 2)}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate(touching cells): %v", err)
	}
}

func TestMarshalFormats(t *testing.T) {
	l := compute(t, "1+1:", "1920x1080")

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			data, err := Marshal(l, format)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if !strings.Contains(string(data), "pixel_position") {
				t.Errorf("%s output missing pixel_position:\n%s", format, data)
			}
			got, err := Unmarshal(data, format)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if diff := cmp.Diff(l, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Marshal(l, "xml"); err == nil {
		t.Error("Marshal(xml) should fail")
	}
}

func TestFileRoundTrip(t *testing.T) {
	l := compute(t, "16:9", "1920x1080")
	dir := t.TempDir()

	for _, name := range []string{"layout.json", "layout.yaml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(l, path); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		if diff := cmp.Diff(l, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]string{
		"out.json": FormatJSON,
		"out.yaml": FormatYAML,
		"OUT.YML":  FormatYAML,
		"out":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
