package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/TheLazyLemur/hookcord/internal/config"
	"github.com/TheLazyLemur/hookcord/internal/feed"
	"github.com/TheLazyLemur/hookcord/internal/handler"
	"github.com/TheLazyLemur/hookcord/internal/notify"
	"github.com/TheLazyLemur/hookcord/internal/relay"
	"github.com/pkg/errors"
)

// NewLogHandler builds the slog handler selected by LOG_FORMAT at LOG_LEVEL.
func NewLogHandler(cfg *config.Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	if cfg.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewNotifier prefers the bot channel when a token is set, else the webhook URL.
func NewNotifier(cfg *config.Config) (relay.Notifier, error) {
	if cfg.BotEnabled() {
		ch, err := notify.NewChannelFromToken(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			return nil, errors.Wrap(err, "creating discord channel notifier")
		}
		return ch, nil
	}
	return notify.NewWebhook(cfg.DiscordWebhookURL, nil), nil
}

// NewHandler wires relay, webhook handler and router. hub may be nil.
func NewHandler(cfg *config.Config, notifier relay.Notifier, hub *feed.Hub) http.Handler {
	var observers []relay.Observer
	routes := handler.RouterConfig{EchoMessage: cfg.EchoMessage}
	if hub != nil {
		observers = append(observers, feed.NewRelayObserver(hub))
		routes.Feed = feed.NewServer(hub, cfg.FeedToken)
	}

	if !cfg.BotEnabled() && cfg.DiscordWebhookURL == "" {
		slog.Warn("DISCORD_WEBHOOK_URL is not set, messages will not be delivered")
	}

	var r *relay.Relay
	if cfg.HasWebhookSecret() {
		r = relay.New(cfg.WebhookSecret, notifier, observers...)
	} else {
		slog.Warn("GITHUB_WEBHOOK_SECRET is not set, every webhook will be rejected")
		r = relay.NewWithoutSecret(notifier, observers...)
	}
	routes.Webhook = handler.NewWebhookHandler(r)
	return handler.NewRouter(routes)
}
