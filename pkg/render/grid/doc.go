// Package grid renders a solved layout as a preview diagram.
//
// # Overview
//
// Each cell of a [layout.Layout] becomes a fixed-size box pinned at its
// pixel position, so the drawing is a scaled-down picture of how the
// monitor will be split. Rendering goes through Graphviz using the neato
// engine, which honours pinned node positions.
//
// # Usage
//
//	dot, err := grid.ToDOT(l, grid.Options{Labels: true})
//	svg, err := grid.RenderSVG(dot)
//
// # Options
//
//   - MaxWidth: Width of the drawing in points (default 720)
//   - Labels: When true, cells show pixel size and position
//
// Only one- and two-dimensional layouts can be drawn. A one-dimensional
// layout is drawn as a single band.
package grid
