package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/marketscout/internal/domain"
	"github.com/alanyoungcy/marketscout/internal/notify"
	"github.com/alanyoungcy/marketscout/internal/server"
	"github.com/alanyoungcy/marketscout/internal/server/handler"
)

// ServeMode runs the HTTP API server and, when a refresh interval is
// configured, a background loop that keeps the payload cache warm.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health:   handler.NewHealthHandler(a.logger),
			Screener: handler.NewScreenerHandler(deps.Screener, deps.Cache, a.logger),
		},
		a.logger,
	)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if interval := a.cfg.Screener.RefreshInterval.Duration; interval > 0 && deps.Cache != nil {
		g.Go(func() error {
			a.refreshLoop(ctx, deps, interval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("app: serve mode: %w", err)
	}
	return ctx.Err()
}

// refreshLoop recomputes every variant on a fixed interval so interactive
// requests mostly hit the cache. Upstream failures are logged and retried on
// the next tick.
func (a *App) refreshLoop(ctx context.Context, deps *Dependencies, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, variant := range domain.Variants() {
				if _, err := deps.Screener.Run(ctx, variant); err != nil {
					a.logger.WarnContext(ctx, "refresh failed",
						slog.String("variant", string(variant)),
						slog.String("error", err.Error()),
					)
				}
			}
		}
	}
}

// ScanMode runs every variant once and writes the payloads to stdout as
// JSON. Used for cron jobs and manual inspection.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	out := make(map[domain.Variant]domain.ScreenerPayload, 3)
	for _, variant := range domain.Variants() {
		payload, err := deps.Screener.Run(ctx, variant)
		if err != nil {
			return fmt.Errorf("app: scan %s: %w", variant, err)
		}
		out[variant] = payload
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("app: encode scan output: %w", err)
	}
	return nil
}

// NotifyMode runs every variant once and delivers a digest per variant to
// the configured notification channels, then exits.
func (a *App) NotifyMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting notify mode")

	for _, variant := range domain.Variants() {
		payload, err := deps.Screener.Run(ctx, variant)
		if err != nil {
			// Tell the operator the digest is missing rather than silently
			// skipping the variant.
			_ = deps.Notifier.Notify(ctx, "error",
				notify.DigestTitle(variant),
				fmt.Sprintf("screener run failed: %v", err),
			)
			return fmt.Errorf("app: notify %s: %w", variant, err)
		}

		if err := deps.Notifier.Notify(ctx, "digest",
			notify.DigestTitle(variant),
			notify.FormatDigest(payload),
		); err != nil {
			a.logger.WarnContext(ctx, "digest delivery incomplete",
				slog.String("variant", string(variant)),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
