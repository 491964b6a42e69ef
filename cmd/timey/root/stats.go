package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/ui"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show level, XP, rewards, and completion rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p := sess.Current()
			st := sess.Stats()
			c := engine.HistoryCompletion(p)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Player Stats"))
			fmt.Fprintln(out, ui.LabelValue("User", sess.UserID()))
			fmt.Fprintln(out, ui.LabelValue("Level", st.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d/%d into this level (total %d)", st.XPIntoLevel, st.XPToNextLevel, st.TotalXP)))
			fmt.Fprintln(out, ui.LabelValue("Days tracked", len(p.History)))
			fmt.Fprintln(out, ui.LabelValue("Chores done", fmt.Sprintf("%d (%.0f%%)", c.Completed, c.Rate*100)))
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render(ui.IconGift+" Rewards"))
			fmt.Fprintln(out, ui.LabelValue("Tokens", p.Rewards.Available))
			fmt.Fprintln(out, ui.LabelValue("Extra play", fmt.Sprintf("%.0f min", engine.GetPermanentBonus(p, engine.RewardExtendPlayTime))))
			fmt.Fprintln(out, ui.LabelValue("Shorter cooldown", fmt.Sprintf("%.0f min", engine.GetPermanentBonus(p, engine.RewardReduceCooldown))))
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past days, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			days := engine.DaySummaries(sess.Current(), sess.Engine().Now())
			if limit > 0 && limit < len(days) {
				days = days[:limit]
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "History"))
			for _, d := range days {
				mark := ui.Muted.Render("open")
				if d.Completed {
					mark = ui.Good.Render("closed")
				}
				fmt.Fprintf(out, "%s  %d/%d done  %s XP  play %s  %s\n",
					ui.Key.Render(d.Date), d.Chores.Completed, d.Chores.Total-d.Chores.NA,
					ui.XPText(d.XP.Final), d.PlayTime, mark)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 14, "number of days to show (0 for all)")
	return cmd
}
