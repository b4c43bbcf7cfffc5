package screener

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// Fetcher obtains one batch of raw events from the upstream feed. It owns
// all network concerns (timeouts, retry hints); the pipeline consumes its
// result as an already-materialized list.
type Fetcher interface {
	FetchEvents(ctx context.Context) ([]domain.RawEvent, error)
}

// Screener runs the normalize -> filter -> score -> assemble pipeline for
// one variant per call. Aside from the fetch, a run is a pure transformation
// of the batch and the evaluation instant; with an injected instant the
// output is fully deterministic, cache or no cache.
type Screener struct {
	fetcher Fetcher
	cache   domain.PayloadCache // may be nil
	cfg     Config
	logger  *slog.Logger
}

// New creates a Screener. cache may be nil to disable payload caching.
func New(fetcher Fetcher, cache domain.PayloadCache, cfg Config, logger *slog.Logger) *Screener {
	return &Screener{
		fetcher: fetcher,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "screener")),
	}
}

// Run computes the payload for a variant using the current UTC time as the
// evaluation instant, consulting the cache first.
func (s *Screener) Run(ctx context.Context, variant domain.Variant) (domain.ScreenerPayload, error) {
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, variant); err == nil {
			s.logger.DebugContext(ctx, "cache hit", slog.String("variant", string(variant)))
			return payload, nil
		}
	}

	payload, err := s.RunAt(ctx, variant, time.Now().UTC())
	if err != nil {
		return domain.ScreenerPayload{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, variant, payload); err != nil {
			s.logger.WarnContext(ctx, "cache set failed",
				slog.String("variant", string(variant)),
				slog.String("error", err.Error()),
			)
		}
	}
	return payload, nil
}

// RunAt computes the payload for a variant at an explicit evaluation
// instant, bypassing the cache. Tests inject the instant for determinism.
func (s *Screener) RunAt(ctx context.Context, variant domain.Variant, now time.Time) (domain.ScreenerPayload, error) {
	runID := uuid.NewString()
	start := time.Now()

	raws, err := s.fetcher.FetchEvents(ctx)
	if err != nil {
		return domain.ScreenerPayload{}, fmt.Errorf("screener: fetch batch: %w", err)
	}

	var cands []domain.Candidate
	for _, raw := range raws {
		cands = append(cands, Normalize(raw, now)...)
	}

	eligible := Filter(cands, s.cfg.PredicatesFor(variant))
	s.cfg.Score(eligible, variant)
	categories := Assemble(eligible, variant, s.cfg.Capacity)

	s.logger.InfoContext(ctx, "screener run complete",
		slog.String("run_id", runID),
		slog.String("variant", string(variant)),
		slog.Int("events", len(raws)),
		slog.Int("candidates", len(cands)),
		slog.Int("eligible", len(eligible)),
		slog.Int("categories", len(categories)),
		slog.Duration("duration", time.Since(start)),
	)

	return domain.ScreenerPayload{
		Variant:     variant,
		GeneratedAt: now,
		Categories:  categories,
	}, nil
}
