package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/backup"
	"github.com/trustieee/timey-sub000/internal/ui"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a snapshot of the profile to the backup bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, sess, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if a.cfg.Backup.Bucket == "" {
				return errors.New("backup.bucket is not configured")
			}
			exp, err := backup.New(ctx, a.cfg.Backup)
			if err != nil {
				return err
			}
			key, err := exp.Export(ctx, sess.UserID(), sess.Document())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconDone+" Backed up to"), key)
			return nil
		},
	}
}
