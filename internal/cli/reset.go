package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/xrpex/xrpex/internal/config"
	"github.com/xrpex/xrpex/pkg/errors"
)

// resetCommand creates the reset command, which removes the virtual
// monitors apply created on a monitor.
func (c *CLI) resetCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove the virtual monitors of a monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReset(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.monitor, "monitor", "m", "", "monitor to reset (default $"+config.MonitorEnv+")")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print xrandr commands instead of running them")
	c.registerMonitorCompletion(cmd)

	return cmd
}

func (c *CLI) runReset(ctx context.Context, opts applyOpts) error {
	mgr := c.manager(opts.dryRun)
	name, err := c.resolveMonitor(ctx, mgr, opts.monitor)
	if err != nil {
		return err
	}

	monitors, err := mgr.Monitors(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDisplay, err, "list monitors")
	}
	var managed []string
	for _, m := range monitors {
		if m.Managed(name) {
			managed = append(managed, m.Name)
		}
	}
	if len(managed) == 0 {
		printInfo("No virtual monitors on %s", StyleHighlight.Render(name))
		return nil
	}

	if err := mgr.Reset(ctx, name); err != nil {
		return errors.Wrap(errors.ErrCodeDisplay, err, "reset %s", name)
	}
	if opts.dryRun || c.Config.DryRun {
		printWarning("dry run, no monitors were changed")
	}
	printSuccess("Removed %d virtual monitors from %s", len(managed), StyleHighlight.Render(name))
	for _, m := range managed {
		printDetail("%s", m)
	}
	return nil
}
