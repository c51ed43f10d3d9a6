// Package pkg provides the core libraries for xrpex ratio expressions.
//
// # Overview
//
// xrpex describes how to cut a rectangle (usually a monitor) into a grid of
// parts with a short expression such as "1+2+1:" or "640+:1+1". Parts in the
// same axis are separated by '+', axes by ':'. Empty parts are solved so the
// parts fill the rectangle exactly.
//
// # Packages
//
//   - rpex: Parsing and solving ratio expressions in any number of dimensions
//   - layout: The serialized form of a solved expression (JSON, YAML)
//   - render/grid: Preview drawings of a layout via Graphviz
//   - monitor: Virtual monitors over xrandr
//   - errors: Error codes shared by the command-line tool
//   - observability: Hooks for logging and metrics
//   - buildinfo: Version information injected at build time
//
// # Example
//
//	ratio, _ := rpex.Plane.ParseRatio("1+2:")
//	rect, _ := rpex.Plane.ParseRectangle("1920x1080")
//	solved, scale, err := ratio.Evaluate(rect)
//	// solved = 16+32:27, scale = 40
//	for p := range solved.Partitions() {
//	    px := p.Scaled(scale)
//	    fmt.Println(px.Position, px.Size)
//	}
package pkg
