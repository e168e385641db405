// Package cli holds the clive command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/clive/internal/coach"
	"github.com/danielpatrickdp/clive/internal/codec"
	"github.com/danielpatrickdp/clive/internal/config"
	"github.com/danielpatrickdp/clive/internal/conversation"
	"github.com/danielpatrickdp/clive/internal/events"
	"github.com/danielpatrickdp/clive/internal/questions"
	"github.com/danielpatrickdp/clive/internal/special"
	"github.com/danielpatrickdp/clive/internal/store"
)

// App carries process-wide dependencies into the commands. Config and
// Logger are filled by the root command before any subcommand runs.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	In  io.Reader
	Out io.Writer

	// IsInteractive reports whether In is a terminal.
	IsInteractive func() bool

	closers []io.Closer
}

// NewApp returns an App on the process's standard streams.
func NewApp() *App {
	return &App{
		In:  os.Stdin,
		Out: os.Stdout,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
}

// Close releases everything opened while wiring.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openStore opens the configured store.
func (a *App) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, a.Config.DatabaseURL, a.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.closers = append(a.closers, st)
	return st, nil
}

// coachOptions turns the config into the options every coach shares.
func (a *App) coachOptions() ([]coach.Option, error) {
	cfg := a.Config
	opts := []coach.Option{
		coach.WithName(cfg.Name),
		coach.WithOptions(cfg.Options),
		coach.WithDetector(special.NewDetector(cfg.DangerWords, cfg.QuitWords)),
	}
	if cfg.BankPath != "" {
		bank, err := questions.LoadBank(cfg.BankPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, coach.WithBank(bank))
	}
	if cfg.CodecAddr != "" {
		client, err := codec.NewClient(cfg.CodecAddr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		a.Logger.Info("using NLP sidecar", zap.String("addr", cfg.CodecAddr))
		opts = append(opts, coach.WithExtractor(client), coach.WithScorer(client))
	}
	return opts, nil
}

// emitter connects to NATS when configured. Without a URL it returns a
// no-op emitter.
func (a *App) emitter(ctx context.Context) (*events.Emitter, error) {
	if a.Config.NatsURL == "" {
		return events.NewEmitter(nil, a.Logger), nil
	}
	client, err := events.NewClient(ctx, a.Config.NatsURL, a.Config.NatsToken, a.Logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closerFunc(func() error { client.Close(); return nil }))
	return events.NewEmitter(client, a.Logger), nil
}

// manager wires a conversation manager over the store, sidecar and events.
func (a *App) manager(ctx context.Context) (*conversation.Manager, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := a.coachOptions()
	if err != nil {
		return nil, err
	}
	em, err := a.emitter(ctx)
	if err != nil {
		return nil, err
	}
	return conversation.NewManager(conversation.Deps{
		Store:        st,
		Emitter:      em,
		Logger:       a.Logger,
		Seed:         a.Config.Seed,
		CoachOptions: opts,
	}), nil
}

