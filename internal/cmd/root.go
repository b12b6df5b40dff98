package cmd

import (
	"fmt"
	"os"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/client"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/output"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	forumURL   string
)

var rootCmd = &cobra.Command{
	Use:   "tlprogress",
	Short: "Discourse trust level progress from the terminal",
	Long: `tlprogress shows how far a Discourse user is from the next trust level.
It reads the forum's public summary, directory and about endpoints, works out
the requirements for the user's level and reports which ones are met.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize config and logger
		if err := config.Init(configPath); err != nil {
			return clierrors.NewCLIError(clierrors.ErrorTypeConfig, "Error initializing config", err)
		}

		logger.Init(verbose)

		if outputFmt != "" {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError("output", "must be one of text, table, json")
			}
			config.Set("output.format", outputFmt)
		}
		if forumURL != "" {
			config.Set("forum.base_url", forumURL)
		}

		client.Init()
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, clierrors.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/tlprogress/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "Output format: text, json, table (default from output.format)")
	rootCmd.PersistentFlags().StringVar(&forumURL, "forum", "", "Forum base URL, overrides forum.base_url")

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(requirementsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
