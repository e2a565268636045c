package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"blink-cli/internal/util"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the sync module and report motion",
	Long: `Continuously refresh the sync module on the given interval and print a
line whenever a camera records a new clip. Refreshes are throttled so a
short interval cannot hammer the cloud API.`,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		api, sm := setupSyncModule(log)

		throttle := util.NewThrottle(watchInterval)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		fmt.Printf("Watching %s every %s. Ctrl-C to stop.\n", sm.Name, watchInterval)

		for range ticker.C {
			if !throttle.Allow() {
				continue
			}

			sm.Refresh(false)
			for _, name := range sm.Cameras.Keys() {
				if !sm.Motion[name] {
					continue
				}
				record := sm.LastRecord[name]
				fmt.Printf("[%s] motion on %s: %s\n", record.Time, name, record.Clip)
			}
			// Only advance the window once a pass completed, so the next
			// check re-covers the same span after a failed one.
			api.SetLastRefresh(time.Now())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Refresh interval")
}
