package cmd

import (
	"time"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/service"
	"github.com/spf13/cobra"
)

var (
	watchInterval    time.Duration
	watchMetricsAddr string
)

var checkCmd = &cobra.Command{
	Use:   "check [username | profile-url]",
	Short: "Show trust level progress once",
	Long: `Fetch a user's stats and show progress toward the next trust level.

The argument may be a username on the configured forum or a profile URL such
as https://forum.example.com/u/alice/summary, which also selects the forum.
Without an argument the stored session, then forum.username, is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewProgressService().Check(cmd.Context(), argOrEmpty(args))
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [username | profile-url]",
	Short: "Keep refreshing trust level progress",
	Long: `Refresh progress on a timer until interrupted.

Press Enter to refresh immediately and Ctrl+C to stop. With --metrics-addr the
latest report is also exported for Prometheus at /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := watchInterval
		if !cmd.Flags().Changed("interval") {
			interval = time.Duration(config.GetInt("watch.interval")) * time.Second
		}
		addr := watchMetricsAddr
		if !cmd.Flags().Changed("metrics-addr") {
			addr = config.GetString("metrics.addr")
		}

		return service.NewWatchService().Watch(cmd.Context(), argOrEmpty(args), service.WatchOptions{
			Interval:    interval,
			MetricsAddr: addr,
		})
	},
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 5*time.Minute, "Time between refreshes (default from watch.interval)")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9108")
}
