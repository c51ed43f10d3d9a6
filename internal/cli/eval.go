package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xrpex/xrpex/pkg/errors"
	"github.com/xrpex/xrpex/pkg/layout"
	"github.com/xrpex/xrpex/pkg/monitor"
	"github.com/xrpex/xrpex/pkg/observability"
	"github.com/xrpex/xrpex/pkg/rpex"
)

const formatText = "text"

// evalOpts holds the command-line flags for the eval command.
type evalOpts struct {
	rect    string // rectangle such as 1920x1080; its length count sets the dimension
	monitor string // take the rectangle from a connected monitor instead
	format  string // text, json or yaml
	output  string // write the layout to a file instead of stdout
}

// evalCommand creates the eval command, which solves a ratio without
// touching the display.
func (c *CLI) evalCommand() *cobra.Command {
	opts := evalOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "eval <ratio>",
		Short: "Solve a ratio on a rectangle and print the layout",
		Long: `Solve a ratio expression on a rectangle and print every part with its size
and offset. The number of lengths in --rect sets the number of axes, so
"xrpex eval 1+1:1 --rect 10x5x4" is an error while "--rect 10x5" works.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateFormat(opts.format, formatText, layout.FormatJSON, layout.FormatYAML); err != nil {
				return err
			}
			return c.runEval(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.rect, "rect", "r", "", "rectangle to split, e.g. 1920x1080")
	cmd.Flags().StringVarP(&opts.monitor, "monitor", "m", "", "use the resolution of this monitor")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json, yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the layout to a .json or .yaml file")
	c.registerMonitorCompletion(cmd)

	return cmd
}

func (c *CLI) runEval(ctx context.Context, text string, opts evalOpts) error {
	l, err := c.solve(ctx, text, opts.rect, opts.monitor)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := layout.WriteFile(l, opts.output); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write layout")
		}
		printSuccess("Solved %s into %d cells", StyleHighlight.Render(l.Solved), len(l.Cells))
		printFile(opts.output)
		return nil
	}

	if opts.format == formatText {
		printLayout(l)
		return nil
	}
	data, err := layout.Marshal(l, opts.format)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode layout")
	}
	fmt.Fprintln(stdout, strings.TrimRight(string(data), "\n"))
	return nil
}

// solve parses text in the dimension of the rectangle and computes the
// layout. The rectangle comes from rect, or from the named monitor.
func (c *CLI) solve(ctx context.Context, text, rect, monitorName string) (layout.Layout, error) {
	r, err := c.rectangle(ctx, rect, monitorName)
	if err != nil {
		return layout.Layout{}, err
	}

	space, err := rpex.NewSpace(r.Dims())
	if err != nil {
		return layout.Layout{}, errors.Classify(err, "rectangle %s", r)
	}
	ratio, err := space.ParseRatio(text)
	if err != nil {
		return layout.Layout{}, errors.Classify(err, "parse %d-axis ratio %q", r.Dims(), text)
	}

	start := time.Now()
	l, err := layout.Compute(ratio, r)
	observability.Solve().OnSolve(ctx, ratio.String(), r.String(), len(l.Cells), time.Since(start), err)
	if err != nil {
		return layout.Layout{}, errors.Classify(err, "solve %s on %s", ratio, r)
	}
	loggerFromContext(ctx).Debug("solved", "ratio", l.Ratio, "solved", l.Solved, "scale", l.Scale)
	return l, nil
}

func (c *CLI) rectangle(ctx context.Context, rect, monitorName string) (rpex.HyperRectangle, error) {
	switch {
	case rect != "" && monitorName != "":
		return rpex.HyperRectangle{}, errors.New(errors.ErrCodeInvalidInput, "--rect and --monitor are mutually exclusive")
	case rect != "":
		return parseRectangle(rect)
	case monitorName != "":
		if err := errors.ValidateMonitorName(monitorName); err != nil {
			return rpex.HyperRectangle{}, err
		}
		monitors, err := c.manager(false).Monitors(ctx)
		if err != nil {
			return rpex.HyperRectangle{}, errors.Wrap(errors.ErrCodeDisplay, err, "list monitors")
		}
		m, err := monitor.Find(monitors, monitorName)
		if err != nil {
			return rpex.HyperRectangle{}, errors.Wrap(errors.ErrCodeMonitorNotFound, err, "monitor %q", monitorName)
		}
		return m.Resolution, nil
	default:
		return rpex.HyperRectangle{}, errors.New(errors.ErrCodeInvalidInput, "one of --rect or --monitor is required")
	}
}

// parseRectangle parses "AxBx..." in as many dimensions as it has lengths.
func parseRectangle(text string) (rpex.HyperRectangle, error) {
	space, err := rpex.NewSpace(strings.Count(text, "x") + 1)
	if err != nil {
		return rpex.HyperRectangle{}, errors.Wrap(errors.ErrCodeInvalidRectangle, err, "rectangle %q", text)
	}
	r, err := space.ParseRectangle(text)
	if err != nil {
		return rpex.HyperRectangle{}, errors.Wrap(errors.ErrCodeInvalidRectangle, err, "rectangle %q", text)
	}
	return r, nil
}
