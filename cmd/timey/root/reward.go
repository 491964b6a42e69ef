package root

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/ui"
)

func newRewardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward <extend|cooldown> [minutes]",
		Short: "Spend a reward token on a permanent bonus",
		Long: `Spend one reward token on a permanent bonus.

  extend    adds minutes to the daily play allowance (default 15)
  cooldown  removes minutes from the pause between sessions (default 5)`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := engine.ParseRewardKind(args[0])
			if err != nil {
				return err
			}
			value := engine.DefaultRewardValue(kind)
			if len(args) == 2 {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
					return errors.New("minutes must be a non-negative number")
				}
				value = v
			}

			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := sess.UseReward(ctx, kind, value)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.Gold.Render(ui.IconGift+" Redeemed"), kind, ui.Muted.Render(fmt.Sprintf("(%.0f min)", value)))
			fmt.Fprintln(out, ui.LabelValue("Tokens left", p.Rewards.Available))
			printPlay(out, sess.PlayStatus())
			return nil
		},
	}
	cmd.AddCommand(newGrantCmd())
	return cmd
}

func newGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <count>",
		Short: "Give reward tokens (parent override)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return errors.New("count must be a positive integer")
			}
			ctx := context.Background()
			_, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := sess.GrantRewards(ctx, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(ui.IconGift+" Tokens", p.Rewards.Available))
			return nil
		},
	}
}
