package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/ui"
)

func choreIDArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("chore id is required")
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		return errors.New("chore id must be an integer")
	}
	return nil
}

// newStatusCmd builds done/undo/skip, which differ only in the status they set.
func newStatusCmd(use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  choreIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.Atoi(args[0])
			st, err := engine.ParseChoreStatus(status)
			if err != nil {
				return err
			}
			change, err := sess.SetChoreStatus(ctx, id, st)
			if err != nil {
				return err
			}

			text := fmt.Sprintf("#%d", id)
			if day, ok := sess.Today(); ok {
				for _, ch := range day.Chores {
					if ch.ID == id {
						text = fmt.Sprintf("#%d %s", id, ch.Text)
					}
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s %s\n", ui.StatusIcon(st), text, ui.StatusText(st), ui.Muted.Render("("+ui.XPText(change.XPDelta)+" XP)"))
			if change.LevelUp {
				fmt.Fprintf(out, "%s %s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", change.After.Level),
					ui.Gold.Render(fmt.Sprintf("+%d reward token(s) %s", change.TokensGranted, ui.IconGift)))
			}
			fmt.Fprintln(out, ui.StatsLine(change.After))
			return nil
		},
	}
}
