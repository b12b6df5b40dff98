package cmd

import (
	"fmt"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/formatter"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigFile())
	},
}

var configGetCmd = &cobra.Command{
	Use:     "get <key>",
	Short:   "Print a config value",
	Example: "  tlprogress config get forum.base_url",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetString(args[0]))
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Store a config value",
	Example: "  tlprogress config set forum.username alice",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetString(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		formatter.PrintSuccess("%s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
