package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
	"github.com/reshetovitsme/streamboard/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultChannels is the channel list used when none is configured
var DefaultChannels = []string{
	"freecodecamp", "brunofin", "storbeck", "terakilobyte", "habathcx", "RobotCaleb",
	"thomasballinger", "noobs2ninjas", "beohoff", "comster404", "ESL_SC2",
}

type Config struct {
	Channels         []string      `koanf:"-"`
	APIBaseURL       string        `koanf:"api_base_url"`
	APIClientID      string        `koanf:"api_client_id"`
	RequestTimeout   int           `koanf:"request_timeout"`
	HTTPPort         string        `koanf:"http_port"`
	LogLevel         string        `koanf:"log_level"`
	TelegramBotToken string        `koanf:"telegram_bot_token"`
	AllowedUsers     []int64       `koanf:"-"`
	AppEnv           domain.AppEnv `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values: HTTP_PORT -> http_port
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("channels") {
		k.Set("channels", DefaultChannels)
	}
	if !k.Exists("api_base_url") {
		k.Set("api_base_url", "https://api.twitch.tv/kraken")
	}
	if !k.Exists("request_timeout") {
		k.Set("request_timeout", 15)
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("log_level") {
		k.Set("log_level", "info")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Lists arrive as a comma-separated string from env vars or as a slice from config files
	cfg.Channels = ParseChannels(k.Get("channels"))
	cfg.AllowedUsers = parseAllowedUsers(k.Get("allowed_users"))

	if appEnv, err := domain.ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = domain.AppEnvProduction
	}

	// Validate required fields
	if len(cfg.Channels) == 0 {
		return nil, errors.ErrNoChannels
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15
	}

	return &cfg, nil
}

// Timeout returns the per-request timeout of the streaming API client
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseChannels normalizes a channel list given either as a comma-separated
// string or as a list. Names are trimmed and blanks and duplicates dropped,
// keeping the first occurrence.
func ParseChannels(raw any) []string {
	var names []string
	switch v := raw.(type) {
	case string:
		names = strings.Split(v, ",")
	case []string:
		names = v
	case []interface{}:
		names = lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
	}

	names = lo.FilterMap(names, func(name string, _ int) (string, bool) {
		name = strings.TrimSpace(name)
		return name, name != ""
	})
	return lo.Uniq(names)
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}

func parseAllowedUsers(raw any) []int64 {
	switch v := raw.(type) {
	case string:
		return ParseAllowedUsers(v)
	case []interface{}:
		return lo.FilterMap(v, func(item interface{}, _ int) (int64, bool) {
			switch val := item.(type) {
			case int64:
				return val, true
			case int:
				return int64(val), true
			case float64:
				return int64(val), true
			default:
				return 0, false
			}
		})
	}
	return []int64{}
}
