package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/xrpex/xrpex/internal/config"
	"github.com/xrpex/xrpex/pkg/buildinfo"
	"github.com/xrpex/xrpex/pkg/errors"
	"github.com/xrpex/xrpex/pkg/monitor"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "xrpex"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config config.Config

	// NewManager builds the display manager. Tests replace it.
	NewManager func(cfg config.Config, dryRun bool, logger *log.Logger) monitor.Manager

	// Interactive reports whether the monitor picker may be shown.
	Interactive func() bool

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		Config:      config.Default(),
		NewManager:  newXrandr,
		Interactive: stdinIsTerminal,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "xrpex splits monitors into virtual monitors by ratio",
		Long: `xrpex splits a physical monitor into virtual xrandr monitors described by a
ratio expression such as "1+2+1:" (three columns, the middle one twice as wide)
or ":1+1" (two rows). Empty addends are solved so the parts fill the monitor.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/xrpex/config.toml)")

	// Register all subcommands
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.monitorsCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config")
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	if cfg.DryRun {
		c.Logger.Debug("dry run enabled by config")
	}
	return nil
}

// =============================================================================
// Manager Factory
// =============================================================================

func (c *CLI) manager(dryRun bool) monitor.Manager {
	return c.NewManager(c.Config, dryRun || c.Config.DryRun, c.Logger)
}

func newXrandr(cfg config.Config, dryRun bool, logger *log.Logger) monitor.Manager {
	return monitor.NewXrandr(
		monitor.WithBinary(cfg.Xrandr),
		monitor.WithDryRun(dryRun),
		monitor.WithLogger(logger),
	)
}

func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
