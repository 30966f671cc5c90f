package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	hrpc "github.com/NTPCPHARMACY/HRPC"
	hrpclifecycle "github.com/NTPCPHARMACY/HRPC/pkg/adapters/lifecycle"
	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
	"github.com/NTPCPHARMACY/HRPC/pkg/gate"
	"github.com/NTPCPHARMACY/HRPC/pkg/web"
)

func newSender(cfg hrpc.Config) *assistant.GeminiSender {
	return assistant.NewGeminiSender(cfg.APIKey,
		assistant.WithModel(cfg.Model),
		assistant.WithSenderLogger(slog.Default()),
	)
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the collections, schemas and maintainer API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := a.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			site, err := a.open(ctx, cfg)
			if err != nil {
				return err
			}
			defer site.Close(context.Background())

			logChanges(ctx, site)
			reloadOnExternalChange(ctx, site)

			sender := newSender(cfg)
			srv := web.New(site.Coordinator,
				web.WithGate(gate.New(cfg.Secret)),
				web.WithSender(sender),
				web.WithLogger(slog.Default()),
				web.WithComponents(site.Store, site.Backend, sender),
			)
			return srv.ListenAndServe(ctx, cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}

// logChanges logs every committed mutation until ctx ends.
func logChanges(ctx context.Context, site *hrpc.Site) {
	events, unsubscribe := site.Coordinator.Subscribe()
	src := hrpclifecycle.NewSource(events)
	if err := src.Start(ctx); err != nil {
		unsubscribe()
		return
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer unsubscribe()
		for e := range src.Events() {
			slog.Info("content changed", "event", e.String())
		}
		return nil
	})
}

// reloadOnExternalChange reloads the collections when another process
// rewrites the store. Only watchable backends (fs) support it.
func reloadOnExternalChange(ctx context.Context, site *hrpc.Site) {
	events, err := site.Store.Watch(ctx, "*")
	if err != nil {
		slog.Debug("external change detection disabled", "reason", err)
		return
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range events {
			slog.Debug("store changed on disk", "event", e.String())
			if err := site.Coordinator.Load(ctx); err != nil {
				slog.Warn("reload after external change failed", "error", err)
			}
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		slog.Error("watch worker failed", "error", err)
	}))
}
