package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/session"
	"github.com/trustieee/timey-sub000/internal/ui"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's chores, level, and play time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			printToday(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}

func printToday(w io.Writer, sess *session.Session) {
	day, ok := sess.Today()
	fmt.Fprintln(w, ui.Heading(ui.IconChores, "Today "+sess.Engine().Today()))
	fmt.Fprintln(w, ui.StatsLine(sess.Stats()))
	fmt.Fprintln(w, "")
	if !ok || len(day.Chores) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("(nothing scheduled today)"))
	}
	for _, ch := range day.Chores {
		fmt.Fprintf(w, "%s %s %s %s\n", ui.StatusIcon(ch.Status), ui.Key.Render(fmt.Sprintf("#%d", ch.ID)), ch.Text, ui.StatusText(ch.Status))
	}
	c := engine.DayCompletion(day)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, ui.LabelValue("Done", fmt.Sprintf("%d/%d", c.Completed, c.Total-c.NA)))
	fmt.Fprintln(w, ui.LabelValue("XP today", ui.XPText(day.XP.Final)))
	if day.Completed {
		fmt.Fprintln(w, ui.Muted.Render("(finalized)"))
	}
	printPlay(w, sess.PlayStatus())
}

func printPlay(w io.Writer, st engine.PlayState) {
	used := engine.FormatMinutes(int(st.Used.Minutes()))
	allowed := engine.FormatMinutes(int(st.Allowed.Minutes()))
	line := fmt.Sprintf("%s / %s", used, allowed)
	switch {
	case st.Open:
		line += " " + ui.Good.Render("playing")
	case st.CanStart:
		line += " " + ui.Muted.Render("ready")
	case st.Reason == engine.ReasonCoolingOff:
		line += " " + ui.Warn.Render("cooling down until "+st.CooldownUntil.Format("15:04"))
	default:
		line += " " + ui.Bad.Render(st.Reason)
	}
	fmt.Fprintln(w, ui.LabelValue(ui.IconTimer+" Play", line))
}
