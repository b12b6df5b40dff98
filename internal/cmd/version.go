package cmd

import (
	"fmt"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "tlprogress v"+config.Version)
	},
}
