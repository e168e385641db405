package cli

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/clive/internal/codec"
)

func newLexiconServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "lexicon-serve",
		Short: "Run the NLP sidecar over gRPC with the built-in tagger and scorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			gs := grpc.NewServer()
			codec.RegisterLexiconServer(gs, codec.NewServer(nil, nil))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				app.Logger.Info("lexicon sidecar listening", zap.String("addr", lis.Addr().String()))
				return gs.Serve(lis)
			})
			g.Go(func() error {
				<-gctx.Done()
				gs.GracefulStop()
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "listen address")
	return cmd
}
