package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/xrpex/xrpex/pkg/errors"
	"github.com/xrpex/xrpex/pkg/monitor"
)

// monitorsCommand creates the monitors command, which lists every monitor
// xrandr knows about.
func (c *CLI) monitorsCommand() *cobra.Command {
	var physical bool

	cmd := &cobra.Command{
		Use:     "monitors",
		Aliases: []string{"ls"},
		Short:   "List connected monitors",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMonitors(cmd.Context(), physical)
		},
	}

	cmd.Flags().BoolVar(&physical, "physical", false, "hide virtual monitors")

	return cmd
}

func (c *CLI) runMonitors(ctx context.Context, physical bool) error {
	monitors, err := c.manager(false).Monitors(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDisplay, err, "list monitors")
	}
	if physical {
		kept := monitors[:0]
		for _, m := range monitors {
			if !m.Virtual {
				kept = append(kept, m)
			}
		}
		monitors = kept
	}
	if len(monitors) == 0 {
		printInfo("No monitors found")
		return nil
	}

	fmt.Fprintln(stdout, monitorTable(monitors).Render())
	return nil
}

func monitorTable(monitors []monitor.Monitor) *table.Table {
	rows := make([][]string, len(monitors))
	for i, m := range monitors {
		rows[i] = monitorRow(m)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Monitor", "Resolution", "Origin", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if monitors[row].Virtual {
				return StyleDim
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})
}
