package main

import (
	"log/slog"
	"os"

	"github.com/TheLazyLemur/hookcord/internal/app"
	"github.com/TheLazyLemur/hookcord/internal/config"
	"github.com/TheLazyLemur/hookcord/internal/relay"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("loading config", "error", err.Error())
		os.Exit(1)
	}
	slog.SetDefault(slog.New(app.NewLogHandler(cfg, os.Stderr)))

	notifier, err := app.NewNotifier(cfg)
	if err != nil {
		slog.Error("creating notifier", "error", err.Error())
		os.Exit(1)
	}

	lambda.Start(newProxy(cfg, notifier).ProxyWithContext)
}

// newProxy serves API Gateway HTTP API (payload v2) events with the shared router.
// There is no live feed here: Lambda invocations do not hold connections open.
func newProxy(cfg *config.Config, notifier relay.Notifier) *httpadapter.HandlerAdapterV2 {
	return httpadapter.NewV2(app.NewHandler(cfg, notifier, nil))
}
