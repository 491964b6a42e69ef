package root

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trustieee/timey-sub000/internal/api"
	"github.com/trustieee/timey-sub000/internal/backup"
	"github.com/trustieee/timey-sub000/internal/scheduler"
	"github.com/trustieee/timey-sub000/internal/session"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API and the background refresh scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			reg := session.NewRegistry(a.store, a.engine)
			if _, err := reg.Get(a.cfg.UserID).Load(ctx); err != nil {
				return err
			}

			var exporter scheduler.Exporter
			if a.cfg.Backup.Enabled {
				exp, err := backup.New(ctx, a.cfg.Backup)
				if err != nil {
					return err
				}
				exporter = exp
			}
			sched, err := scheduler.New(reg, exporter, a.cfg.Timer.RefreshInterval)
			if err != nil {
				return err
			}
			sched.Start()
			defer func() {
				if err := sched.Shutdown(); err != nil {
					log.Printf("⚠️  scheduler shutdown: %v", err)
				}
			}()

			app := api.New(reg, a.cfg.Server.AllowedOrigins)
			go func() {
				<-ctx.Done()
				_ = app.Shutdown()
			}()

			log.Printf("🚀 timey admin API listening on %s (store: %s)", addr, a.cfg.Store.Driver)
			if err := app.Listen(addr); err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :5200)")
	return cmd
}
