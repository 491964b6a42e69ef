package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/dates"
	"github.com/trustieee/timey-sub000/internal/ui"
)

func newFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize [date]",
		Short: "Close a day and apply penalties (default: every day before today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := ""
			if len(args) == 1 {
				if _, err := dates.ParseDay(args[0]); err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
				date = args[0]
			}

			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := sess.Finalize(ctx, date)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if date != "" {
				day, ok := p.History[date]
				if !ok {
					fmt.Fprintln(out, ui.Muted.Render("no record for "+date))
					return nil
				}
				fmt.Fprintf(out, "%s %s  penalties %d  final %s XP\n", ui.Good.Render("closed"), date, day.XP.Penalties, ui.XPText(day.XP.Final))
				return nil
			}
			fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" every earlier day is closed"))
			return nil
		},
	}
}
