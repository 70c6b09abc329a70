package config

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileVar names the variable pointing at an optional YAML config file.
const FileVar = "HOOKCORD_CONFIG"

// Config is the process configuration, read once at startup.
type Config struct {
	WebhookSecret     string `yaml:"webhook_secret" env:"GITHUB_WEBHOOK_SECRET"`
	DiscordWebhookURL string `yaml:"discord_webhook_url" env:"DISCORD_WEBHOOK_URL"`
	DiscordToken      string `yaml:"discord_token" env:"DISCORD_TOKEN"`
	DiscordChannelID  string `yaml:"discord_channel_id" env:"DISCORD_CHANNEL_ID"`
	EchoMessage       string `yaml:"echo_message" env:"ECHO_MESSAGE"`
	Port              string `yaml:"port" env:"PORT"`
	FeedToken         string `yaml:"feed_token" env:"FEED_TOKEN"`
	LogLevel          string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat         string `yaml:"log_format" env:"LOG_FORMAT"`

	// secretSet tells an explicitly empty secret apart from a missing one.
	secretSet bool
}

func defaults() Config {
	return Config{
		Port:      "5005",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads config from a variable map. For production use LoadFromEnv.
// Values from the YAML file named by HOOKCORD_CONFIG are applied first and
// overridden by the map.
func Load(vars map[string]string) (*Config, error) {
	cfg := defaults()

	if path := vars[FileVar]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
		var keys map[string]any
		if err := yaml.Unmarshal(data, &keys); err == nil {
			_, cfg.secretSet = keys["webhook_secret"]
		}
	}
	if _, ok := vars["GITHUB_WEBHOOK_SECRET"]; ok {
		cfg.secretSet = true
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, errors.Wrap(err, "parsing environment")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads config from os environment variables.
func LoadFromEnv() (*Config, error) {
	return Load(env.ToMap(os.Environ()))
}

// HasWebhookSecret reports whether a secret was configured at all, even an empty one.
func (c *Config) HasWebhookSecret() bool {
	return c.secretSet
}

// BotEnabled reports whether messages go through a bot token instead of the webhook URL.
func (c *Config) BotEnabled() bool {
	return c.DiscordToken != ""
}

// FeedEnabled reports whether the live feed endpoint accepts connections.
func (c *Config) FeedEnabled() bool {
	return c.FeedToken != ""
}

// Level returns the parsed log level. Load has already validated it.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl
}

func (c *Config) validate() error {
	if c.DiscordWebhookURL != "" {
		u, err := url.Parse(c.DiscordWebhookURL)
		if err != nil {
			return errors.Wrap(err, "invalid DISCORD_WEBHOOK_URL")
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("invalid DISCORD_WEBHOOK_URL %q: must be an absolute http(s) URL", c.DiscordWebhookURL)
		}
	}

	if c.BotEnabled() {
		if c.DiscordChannelID == "" {
			return errors.New("DISCORD_CHANNEL_ID required when DISCORD_TOKEN is set")
		}
		if _, err := strconv.ParseUint(c.DiscordChannelID, 10, 64); err != nil {
			return errors.Errorf("invalid channel ID %q: must be numeric", c.DiscordChannelID)
		}
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return errors.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat)
	}

	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return errors.Errorf("invalid PORT %q", c.Port)
	}

	return nil
}
