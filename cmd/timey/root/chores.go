package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/config"
	"github.com/trustieee/timey-sub000/internal/ui"
)

func newChoresCmd() *cobra.Command {
	var fromConfig bool
	cmd := &cobra.Command{
		Use:   "chores",
		Short: "Show the chore schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if fromConfig {
				defs, err := config.ToDefinitions(a.cfg.Chores)
				if err != nil {
					return err
				}
				if _, err := sess.SetChores(ctx, defs); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" schedule replaced from config"))
			}

			defs := sess.Current().Chores
			source := "profile"
			if len(defs) == 0 {
				defs = a.engine.Rules().Catalog
				source = "config"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconChores, "Chores")+" "+ui.Muted.Render("("+source+")"))
			for _, d := range defs {
				fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render(fmt.Sprintf("#%d", d.ID)), d.Text, ui.Muted.Render(d.DaysOfWeek.String()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromConfig, "sync", false, "replace the profile's schedule with the configured chores")
	return cmd
}
