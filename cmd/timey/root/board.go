package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/tui"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, sess, cmd.OutOrStdout())
		},
	}
}
