package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/ui"
)

const Version = "0.1.0"

var (
	configPath string
	userFlag   string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "timey",
		Short:         "timey: household chores, XP, and a play timer",
		Long:          "timey tracks daily chores, awards XP and levels, and gates play time behind a daily allowance and cooldown.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./timey.yaml or ~/.timey/timey.yaml)")
	cmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id (overrides user_id from config)")

	cmd.AddCommand(
		newTodayCmd(),
		newStatusCmd("done", "Mark a chore done", "completed"),
		newStatusCmd("undo", "Mark a chore not done", "incomplete"),
		newStatusCmd("skip", "Mark a chore as not applicable today", "na"),
		newStatsCmd(),
		newHistoryCmd(),
		newRewardCmd(),
		newPlayCmd(),
		newFinalizeCmd(),
		newChoresCmd(),
		newBoardCmd(),
		newServeCmd(),
		newBackupCmd(),
	)
	return cmd
}

func Execute() {
	cmd := newRootCmd()
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
