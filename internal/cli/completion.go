package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for xrpex.

To load completions:

Bash:
  $ source <(xrpex completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ xrpex completion bash > /etc/bash_completion.d/xrpex
  # macOS:
  $ xrpex completion bash > $(brew --prefix)/etc/bash_completion.d/xrpex

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ xrpex completion zsh > "${fpath[1]}/_xrpex"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ xrpex completion fish | source

  # To load completions for each session, execute once:
  $ xrpex completion fish > ~/.config/fish/completions/xrpex.fish

PowerShell:
  PS> xrpex completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> xrpex completion powershell > xrpex.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// registerMonitorCompletion completes --monitor with the physical monitors
// xrandr reports.
func (c *CLI) registerMonitorCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("monitor", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		monitors, err := c.manager(false).Monitors(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var names []string
		for _, m := range monitors {
			if !m.Virtual && strings.HasPrefix(m.Name, toComplete) {
				names = append(names, m.Name+"\t"+m.Resolution.String())
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
