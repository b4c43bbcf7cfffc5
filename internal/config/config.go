// Package config defines the top-level configuration for the marketscout
// screener and provides validation helpers.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by MSCOUT_* environment variables.
type Config struct {
	Gamma    GammaConfig    `toml:"gamma"`
	Screener ScreenerConfig `toml:"screener"`
	Cache    CacheConfig    `toml:"cache"`
	Redis    RedisConfig    `toml:"redis"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// GammaConfig holds the upstream feed endpoint and fetch parameters.
type GammaConfig struct {
	BaseURL     string   `toml:"base_url"`
	Limit       int      `toml:"limit"`
	IncludeTags []string `toml:"include_tags"`
	ExcludeTags []string `toml:"exclude_tags"`
	Timeout     duration `toml:"timeout"`
}

// ScreenerConfig holds the pipeline thresholds. Zero values mean "use the
// built-in default" so a partial TOML section stays valid.
type ScreenerConfig struct {
	WindowHours          float64  `toml:"window_hours"`
	OpportunityMinVolume float64  `toml:"opportunity_min_volume"`
	MoveMinVolume        float64  `toml:"move_min_volume"`
	FlipMinMove          float64  `toml:"flip_min_move"`
	VelocityMinMove      float64  `toml:"velocity_min_move"`
	Capacity             int      `toml:"capacity"`
	RefreshInterval      duration `toml:"refresh_interval"`
}

// CacheConfig selects the payload cache backend.
type CacheConfig struct {
	// Backend is "memory", "redis", or "none".
	Backend string   `toml:"backend"`
	TTL     duration `toml:"ttl"`
}

// RedisConfig holds Redis connection parameters (used when cache.backend is
// "redis").
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "60s", "5m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Gamma: GammaConfig{
			BaseURL: "https://gamma-api.polymarket.com",
			Limit:   500,
			Timeout: duration{30 * time.Second},
		},
		Screener: ScreenerConfig{
			WindowHours:          72,
			OpportunityMinVolume: 10_000,
			MoveMinVolume:        25_000,
			FlipMinMove:          0.20,
			VelocityMinMove:      0.10,
			Capacity:             5,
			RefreshInterval:      duration{60 * time.Second},
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     duration{60 * time.Second},
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"digest", "error"},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve":  true,
	"scan":   true,
	"notify": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validCacheBackends enumerates the accepted values for Cache.Backend.
var validCacheBackends = map[string]bool{
	"memory": true,
	"redis":  true,
	"none":   true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, scan, notify)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Gamma endpoint must be a well-formed absolute URL.
	if c.Gamma.BaseURL == "" {
		errs = append(errs, "gamma: base_url must not be empty")
	} else if u, err := url.Parse(c.Gamma.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("gamma: base_url %q is not a valid URL", c.Gamma.BaseURL))
	}
	if c.Gamma.Limit < 0 {
		errs = append(errs, "gamma: limit must be >= 0")
	}

	// Screener thresholds.
	if c.Screener.WindowHours <= 0 {
		errs = append(errs, "screener: window_hours must be > 0")
	}
	if c.Screener.OpportunityMinVolume < 0 || c.Screener.MoveMinVolume < 0 {
		errs = append(errs, "screener: volume floors must be >= 0")
	}
	if c.Screener.FlipMinMove <= 0 || c.Screener.VelocityMinMove <= 0 {
		errs = append(errs, "screener: move thresholds must be > 0")
	}
	if c.Screener.VelocityMinMove > c.Screener.FlipMinMove {
		errs = append(errs, "screener: velocity_min_move must not exceed flip_min_move")
	}
	if c.Screener.Capacity < 1 {
		errs = append(errs, "screener: capacity must be >= 1")
	}

	// Cache.
	if !validCacheBackends[strings.ToLower(c.Cache.Backend)] {
		errs = append(errs, fmt.Sprintf("cache: unknown backend %q (valid: memory, redis, none)", c.Cache.Backend))
	}
	if strings.ToLower(c.Cache.Backend) == "redis" {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when cache.backend is redis")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Server.
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	// Notify — token and chat id go together.
	tk := c.Notify.TelegramToken != ""
	ch := c.Notify.TelegramChatID != ""
	if tk != ch {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}
	if c.Mode == "notify" && !tk && c.Notify.DiscordWebhookURL == "" {
		errs = append(errs, "notify: at least one channel must be configured for notify mode")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
