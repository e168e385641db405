package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/clive/internal/api"
	"github.com/danielpatrickdp/clive/internal/conversation"
)

func newServeCmd(app *App) *cobra.Command {
	var port int
	var idle time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversations over HTTP and websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mgr, err := app.manager(ctx)
			if err != nil {
				return err
			}
			if port == 0 {
				port = app.Config.Port
			}
			srv := api.NewServer(mgr, port, app.Logger)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Start(gctx) })
			g.Go(func() error {
				evictLoop(gctx, mgr, idle, app.Logger)
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	cmd.Flags().DurationVar(&idle, "idle", 30*time.Minute, "drop conversations idle this long from memory")
	return cmd
}

// evictLoop drops idle conversations from memory until ctx ends.
func evictLoop(ctx context.Context, mgr *conversation.Manager, idle time.Duration, logger *zap.Logger) {
	if idle <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := mgr.Evict(now.Add(-idle)); n > 0 {
				logger.Info("evicted idle conversations", zap.Int("count", n), zap.Int("live", mgr.Live()))
			}
		}
	}
}
