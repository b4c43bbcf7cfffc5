package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/marketscout/internal/cache/memory"
	"github.com/alanyoungcy/marketscout/internal/cache/redis"
	"github.com/alanyoungcy/marketscout/internal/config"
	"github.com/alanyoungcy/marketscout/internal/domain"
	"github.com/alanyoungcy/marketscout/internal/notify"
	"github.com/alanyoungcy/marketscout/internal/platform/polymarket"
	"github.com/alanyoungcy/marketscout/internal/screener"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Screener *screener.Screener
	Cache    domain.PayloadCache // nil when cache.backend is "none"
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Gamma feed client ---
	gamma, err := polymarket.NewGammaClient(polymarket.GammaConfig{
		BaseURL:     cfg.Gamma.BaseURL,
		Limit:       cfg.Gamma.Limit,
		WindowHours: cfg.Screener.WindowHours,
		IncludeTags: cfg.Gamma.IncludeTags,
		ExcludeTags: cfg.Gamma.ExcludeTags,
		Timeout:     cfg.Gamma.Timeout.Duration,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: gamma client: %w", err)
	}

	// --- Payload cache ---
	switch strings.ToLower(cfg.Cache.Backend) {
	case "redis":
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		deps.Cache = redis.NewPayloadCache(redisClient, cfg.Cache.TTL.Duration)
	case "memory":
		deps.Cache = memory.NewPayloadCache(cfg.Cache.TTL.Duration)
	case "none":
		deps.Cache = nil
	}

	// --- Pipeline ---
	deps.Screener = screener.New(gamma, deps.Cache, screenerConfig(cfg), logger)

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}

// screenerConfig overlays configured thresholds onto the built-in defaults,
// so an unset (zero) field keeps its default.
func screenerConfig(cfg *config.Config) screener.Config {
	sc := screener.DefaultConfig()
	if cfg.Screener.WindowHours > 0 {
		sc.WindowHours = cfg.Screener.WindowHours
	}
	if cfg.Screener.OpportunityMinVolume > 0 {
		sc.OpportunityMinVolume = cfg.Screener.OpportunityMinVolume
	}
	if cfg.Screener.MoveMinVolume > 0 {
		sc.MoveMinVolume = cfg.Screener.MoveMinVolume
	}
	if cfg.Screener.FlipMinMove > 0 {
		sc.FlipMinMove = cfg.Screener.FlipMinMove
	}
	if cfg.Screener.VelocityMinMove > 0 {
		sc.VelocityMinMove = cfg.Screener.VelocityMinMove
	}
	if cfg.Screener.Capacity > 0 {
		sc.Capacity = cfg.Screener.Capacity
	}
	return sc
}
