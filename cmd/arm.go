package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Arm the sync module's network",
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		_, sm := setupSyncModule(log)

		if err := sm.Arm(); err != nil {
			fmt.Printf("Error arming network %d: %v\n", sm.NetworkID, err)
			os.Exit(1)
		}
		fmt.Printf("Arm command sent to network %d.\n", sm.NetworkID)
	},
}

var disarmCmd = &cobra.Command{
	Use:   "disarm",
	Short: "Disarm the sync module's network",
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger()
		_, sm := setupSyncModule(log)

		if err := sm.Disarm(); err != nil {
			fmt.Printf("Error disarming network %d: %v\n", sm.NetworkID, err)
			os.Exit(1)
		}
		fmt.Printf("Disarm command sent to network %d.\n", sm.NetworkID)
	},
}

func init() {
	rootCmd.AddCommand(armCmd)
	rootCmd.AddCommand(disarmCmd)
}
