package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xrpex/xrpex/internal/config"
	"github.com/xrpex/xrpex/pkg/errors"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.Path
			if path == "" {
				path = StyleDim.Render("(none)")
			}
			monitor := c.Config.Monitor
			if env := os.Getenv(config.MonitorEnv); env != "" {
				monitor += " " + StyleDim.Render("($"+config.MonitorEnv+")")
			}
			printKeyValue("file", path)
			printKeyValue("monitor", monitor)
			printKeyValue("xrandr", c.Config.Xrandr)
			printKeyValue("dry_run", strconv.FormatBool(c.Config.DryRun))
			printKeyValue("ratio", c.Config.DefaultRatio)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Args:  cobra.NoArgs,
		// The file may not exist yet, so skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config directory")
				}
				path = p
			}

			if err := config.WriteDefault(path); err != nil {
				if os.IsExist(err) {
					printWarning("%s already exists", path)
					return nil
				}
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "write config")
			}
			printSuccess("Created config")
			printFile(path)
			return nil
		},
	}
}
