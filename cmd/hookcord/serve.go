package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/TheLazyLemur/hookcord/internal/app"
	"github.com/TheLazyLemur/hookcord/internal/feed"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook relay HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	notifier, err := app.NewNotifier(cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var hub *feed.Hub
	if cfg.FeedEnabled() {
		hub = feed.NewHub()
		slog.SetDefault(slog.New(feed.NewBroadcastHandler(hub, app.NewLogHandler(cfg, os.Stderr))))
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           app.NewHandler(cfg, notifier, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr, "feed", cfg.FeedEnabled(), "bot", cfg.BotEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
