package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for bash, zsh, fish, or powershell.

To load completions in your shell session, run:

Bash:
  source <(tlprogress completion bash)

Zsh:
  source <(tlprogress completion zsh)

Fish:
  tlprogress completion fish | source

PowerShell:
  tlprogress completion powershell | Out-String | Invoke-Expression

To load completions for every new session, execute once:

Bash:
  tlprogress completion bash > /etc/bash_completion.d/tlprogress

Zsh:
  tlprogress completion zsh > /usr/local/share/zsh/site-functions/_tlprogress

Fish:
  tlprogress completion fish > ~/.config/fish/completions/tlprogress.fish

PowerShell:
  tlprogress completion powershell >> $PROFILE
`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return fmt.Errorf("unknown shell: %s", args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
