package main

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/TheLazyLemur/hookcord/internal/app"
	"github.com/TheLazyLemur/hookcord/internal/config"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hookcord",
		Short: "Relay signed GitHub webhooks into a Discord channel",
	}
	root.AddCommand(serveCmd(), signCmd(), notifyCmd())
	return root
}

// loadConfig reads the environment and installs the configured default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(app.NewLogHandler(cfg, os.Stderr)))
	return cfg, nil
}
