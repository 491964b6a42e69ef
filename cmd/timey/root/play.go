package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/ui"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start, stop, or check the play timer",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start a play session if allowed",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				_, sess, cleanup, err := openSession(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				st, err := sess.StartPlay(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconTimer+" Play started"))
				printPlay(cmd.OutOrStdout(), st)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the running play session",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				_, sess, cleanup, err := openSession(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				st, err := sess.StopPlay(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconTimer+" Play stopped"))
				printPlay(cmd.OutOrStdout(), st)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show play time used and whether a session may start",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				_, sess, cleanup, err := openSession(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				if _, err := sess.Refresh(ctx); err != nil {
					return err
				}
				printPlay(cmd.OutOrStdout(), sess.PlayStatus())
				return nil
			},
		},
	)
	return cmd
}
