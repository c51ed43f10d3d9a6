package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xrpex/xrpex/internal/config"
	"github.com/xrpex/xrpex/pkg/errors"
	"github.com/xrpex/xrpex/pkg/layout"
	"github.com/xrpex/xrpex/pkg/monitor"
	"github.com/xrpex/xrpex/pkg/observability"
	"github.com/xrpex/xrpex/pkg/rpex"
)

// applyOpts holds the command-line flags for the apply command.
type applyOpts struct {
	monitor string // parent monitor; falls back to XRPEX_MONITOR, config, picker
	dryRun  bool   // log xrandr commands instead of running them
}

// applyCommand creates the apply command, which replaces any earlier split
// of the monitor with the one described by the ratio.
func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "apply [ratio]",
		Short: "Split a monitor into virtual monitors",
		Long: `Split a monitor into virtual monitors described by a ratio expression.

Axes are separated by ':' (width first), parts within an axis by '+'.
An empty part is solved so the parts fill the monitor.

Examples:
  xrpex apply 1+2+1:        three columns, the middle one twice as wide
  xrpex apply :1+1          two rows
  xrpex apply 1+1:1+1       four quadrants
  xrpex apply 640+:         a 640px column and the rest`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return c.runApply(cmd.Context(), text, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.monitor, "monitor", "m", "", "monitor to split (default $"+config.MonitorEnv+")")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print xrandr commands instead of running them")
	c.registerMonitorCompletion(cmd)

	return cmd
}

func (c *CLI) runApply(ctx context.Context, text string, opts applyOpts) error {
	logger := loggerFromContext(ctx)

	if text == "" {
		text = c.Config.DefaultRatio
		if text == "" {
			return errors.New(errors.ErrCodeInvalidInput, "no ratio given and default_ratio is not configured")
		}
		logger.Debug("using default ratio", "ratio", text)
	}
	ratio, err := rpex.Plane.ParseRatio(text)
	if err != nil {
		return errors.Classify(err, "parse ratio %q", text)
	}

	mgr := c.manager(opts.dryRun)
	name, err := c.resolveMonitor(ctx, mgr, opts.monitor)
	if err != nil {
		return err
	}

	monitors, err := mgr.Monitors(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDisplay, err, "list monitors")
	}
	parent, err := monitor.Find(monitors, name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMonitorNotFound, err, "monitor %q", name)
	}

	// Solve up front so errors name the monitor and no xrandr call is made.
	start := time.Now()
	l, err := layout.Compute(ratio, parent.Resolution)
	observability.Solve().OnSolve(ctx, ratio.String(), parent.Resolution.String(), len(l.Cells), time.Since(start), err)
	if err != nil {
		return errors.Classify(err, "solve %s on %s (%s)", ratio, parent.Name, parent.Resolution)
	}

	if parent.Hidden {
		logger.Debug("monitor is hidden by an earlier split", "name", name, "resolution", parent.Resolution)
	}

	prog := newProgress(logger)
	parent, err = mgr.Apply(ctx, name, ratio)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDisplay, err, "apply %s to %s", ratio, name)
	}
	prog.done(fmt.Sprintf("Applied %d monitors", len(l.Cells)))

	if opts.dryRun || c.Config.DryRun {
		printWarning("dry run, no monitors were changed")
	}
	printSuccess("Split %s into %d monitors", StyleHighlight.Render(name), len(l.Cells))
	for _, cell := range l.Cells {
		x, y := cell.PixelPosition[0], cell.PixelPosition[1]
		printDetail("%-24s %s", monitor.VirtualName(name, x, y),
			monitor.Geometry(cell.PixelSize[0], cell.PixelSize[1], parent.Origin[0]+x, parent.Origin[1]+y))
	}
	printNextStep("Undo with", "xrpex reset -m "+name)
	return nil
}

// resolveMonitor picks the parent monitor: the flag, then XRPEX_MONITOR or
// the config file, then the interactive picker.
func (c *CLI) resolveMonitor(ctx context.Context, mgr monitor.Manager, flag string) (string, error) {
	name := flag
	if name == "" {
		name = c.Config.Monitor
	}
	if name != "" {
		if err := errors.ValidateMonitorName(name); err != nil {
			return "", err
		}
		return name, nil
	}

	if !c.Interactive() {
		return "", errors.New(errors.ErrCodeInvalidMonitor,
			"no monitor given: use --monitor or set %s", config.MonitorEnv)
	}

	monitors, err := mgr.Monitors(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDisplay, err, "list monitors")
	}
	if len(monitors) == 0 {
		return "", errors.New(errors.ErrCodeMonitorNotFound, "no monitors connected")
	}
	picked, err := pickMonitor(monitors)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMonitorNotFound, err, "select monitor")
	}
	loggerFromContext(ctx).Debug("selected monitor", "name", picked.Name)
	return picked.Name, nil
}
