package grid

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/xrpex/xrpex/pkg/layout"
)

// DefaultMaxWidth is the drawing width in points when Options.MaxWidth is 0.
const DefaultMaxWidth = 720.0

// bandHeight is the height in points of a one-dimensional layout.
const bandHeight = 72.0

// Options configures preview rendering.
type Options struct {
	MaxWidth float64
	Labels   bool
}

// ToDOT converts a layout to Graphviz DOT with one pinned box per cell.
func ToDOT(l layout.Layout, opts Options) (string, error) {
	dims := len(l.Rectangle)
	if dims < 1 || dims > 2 {
		return "", fmt.Errorf("cannot draw a %d-dimensional layout", dims)
	}
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	// points per pixel
	k := maxWidth / float64(l.Rectangle[0])
	height := bandHeight
	if dims == 2 {
		height = float64(l.Rectangle[1]) * k
	}

	var buf bytes.Buffer
	buf.WriteString("graph xrpex {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fixedsize=true, fontsize=10, fontname=\"SF Mono, Menlo, monospace\"];\n")
	buf.WriteString("\n")

	for _, c := range l.Cells {
		x, w := float64(c.PixelPosition[0])*k, float64(c.PixelSize[0])*k
		y, h := 0.0, height
		if dims == 2 {
			y, h = float64(c.PixelPosition[1])*k, float64(c.PixelSize[1])*k
		}
		// Graphviz puts the origin at the bottom left.
		cx, cy := x+w/2, height-(y+h/2)

		label := ""
		if opts.Labels {
			label = cellLabel(c)
		}
		fmt.Fprintf(&buf, "  %q [pos=\"%s,%s!\", width=%s, height=%s, label=%q];\n",
			c.Name, fmtFloat(cx), fmtFloat(cy), fmtFloat(w/72), fmtFloat(h/72), label)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func cellLabel(c layout.Cell) string {
	size := layout.CellName(c.PixelSize)
	pos := layout.CellName(c.PixelPosition)
	if len(c.PixelSize) == 2 {
		size = fmt.Sprintf("%dx%d", c.PixelSize[0], c.PixelSize[1])
		pos = fmt.Sprintf("+%d+%d", c.PixelPosition[0], c.PixelPosition[1])
	}
	return size + "\n" + pos
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// RenderSVG renders a DOT document to SVG using Graphviz's neato engine.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
