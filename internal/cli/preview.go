package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrpex/xrpex/pkg/errors"
	"github.com/xrpex/xrpex/pkg/layout"
	"github.com/xrpex/xrpex/pkg/render/grid"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	rect       string  // rectangle to split
	monitor    string  // take the rectangle from a connected monitor
	layoutFile string  // render a layout written by eval -o instead of solving
	output     string  // .svg or .dot; stdout gets SVG when empty
	width      float64 // drawing width in points
	labels     bool    // print pixel size and offset in each cell
}

// previewCommand creates the preview command, which draws a solved layout.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{width: grid.DefaultMaxWidth, labels: true}

	cmd := &cobra.Command{
		Use:   "preview [ratio]",
		Short: "Draw a solved layout as SVG or DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return c.runPreview(cmd.Context(), text, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rect, "rect", "r", "", "rectangle to split, e.g. 1920x1080")
	cmd.Flags().StringVarP(&opts.monitor, "monitor", "m", "", "use the resolution of this monitor")
	cmd.Flags().StringVarP(&opts.layoutFile, "layout", "l", "", "render a layout file written by eval -o")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg or .dot)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "drawing width in points")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "label cells with pixel size and offset")
	c.registerMonitorCompletion(cmd)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, text string, opts previewOpts) error {
	l, err := c.previewLayout(ctx, text, opts)
	if err != nil {
		return err
	}

	dot, err := grid.ToDOT(l, grid.Options{MaxWidth: opts.width, Labels: opts.labels})
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "preview")
	}

	data := []byte(dot)
	if !strings.EqualFold(filepath.Ext(opts.output), ".dot") {
		prog := newProgress(loggerFromContext(ctx))
		if data, err = grid.RenderSVG(dot); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render preview")
		}
		prog.done("Rendered SVG")
	}

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write preview")
	}
	printSuccess("Rendered %s", StyleHighlight.Render(l.Solved))
	printFile(opts.output)
	return nil
}

func (c *CLI) previewLayout(ctx context.Context, text string, opts previewOpts) (layout.Layout, error) {
	if opts.layoutFile == "" {
		if text == "" {
			return layout.Layout{}, errors.New(errors.ErrCodeInvalidInput, "a ratio or --layout is required")
		}
		return c.solve(ctx, text, opts.rect, opts.monitor)
	}

	if text != "" {
		return layout.Layout{}, errors.New(errors.ErrCodeInvalidInput, "a ratio and --layout are mutually exclusive")
	}
	l, err := layout.ReadFile(opts.layoutFile)
	if err != nil {
		if os.IsNotExist(err) {
			return layout.Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", opts.layoutFile)
		}
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout %s", opts.layoutFile)
	}
	return l, nil
}
