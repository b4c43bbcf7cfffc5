package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MSCOUT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. An empty path skips the
// file and uses defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MSCOUT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Gamma ──
	setStr(&cfg.Gamma.BaseURL, "MSCOUT_GAMMA_BASE_URL")
	setInt(&cfg.Gamma.Limit, "MSCOUT_GAMMA_LIMIT")
	setStringSlice(&cfg.Gamma.IncludeTags, "MSCOUT_GAMMA_INCLUDE_TAGS")
	setStringSlice(&cfg.Gamma.ExcludeTags, "MSCOUT_GAMMA_EXCLUDE_TAGS")
	setDuration(&cfg.Gamma.Timeout, "MSCOUT_GAMMA_TIMEOUT")

	// ── Screener ──
	setFloat64(&cfg.Screener.WindowHours, "MSCOUT_SCREENER_WINDOW_HOURS")
	setFloat64(&cfg.Screener.OpportunityMinVolume, "MSCOUT_SCREENER_OPPORTUNITY_MIN_VOLUME")
	setFloat64(&cfg.Screener.MoveMinVolume, "MSCOUT_SCREENER_MOVE_MIN_VOLUME")
	setFloat64(&cfg.Screener.FlipMinMove, "MSCOUT_SCREENER_FLIP_MIN_MOVE")
	setFloat64(&cfg.Screener.VelocityMinMove, "MSCOUT_SCREENER_VELOCITY_MIN_MOVE")
	setInt(&cfg.Screener.Capacity, "MSCOUT_SCREENER_CAPACITY")
	setDuration(&cfg.Screener.RefreshInterval, "MSCOUT_SCREENER_REFRESH_INTERVAL")

	// ── Cache ──
	setStr(&cfg.Cache.Backend, "MSCOUT_CACHE_BACKEND")
	setDuration(&cfg.Cache.TTL, "MSCOUT_CACHE_TTL")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "MSCOUT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MSCOUT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MSCOUT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MSCOUT_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MSCOUT_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MSCOUT_REDIS_TLS_ENABLED")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "MSCOUT_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "MSCOUT_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "MSCOUT_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "MSCOUT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "MSCOUT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "MSCOUT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "MSCOUT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "MSCOUT_MODE")
	setStr(&cfg.LogLevel, "MSCOUT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
