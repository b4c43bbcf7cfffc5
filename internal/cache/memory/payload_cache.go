// Package memory implements domain.PayloadCache as an in-process TTL map,
// the default for single-replica deployments with no Redis configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

const defaultTTL = 60 * time.Second

type entry struct {
	payload   domain.ScreenerPayload
	expiresAt time.Time
}

// PayloadCache is a mutex-guarded map with per-entry expiry. The clock is
// injectable so tests can step time without sleeping.
type PayloadCache struct {
	mu      sync.Mutex
	entries map[domain.Variant]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewPayloadCache creates a PayloadCache. A non-positive ttl falls back to
// 60 seconds.
func NewPayloadCache(ttl time.Duration) *PayloadCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &PayloadCache{
		entries: make(map[domain.Variant]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the cache's time source. Test hook.
func (pc *PayloadCache) WithClock(now func() time.Time) *PayloadCache {
	pc.now = now
	return pc
}

// Get returns the cached payload for a variant, or domain.ErrNotFound when
// absent or expired. Expired entries are removed on read.
func (pc *PayloadCache) Get(_ context.Context, variant domain.Variant) (domain.ScreenerPayload, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	e, ok := pc.entries[variant]
	if !ok {
		return domain.ScreenerPayload{}, domain.ErrNotFound
	}
	if pc.now().After(e.expiresAt) {
		delete(pc.entries, variant)
		return domain.ScreenerPayload{}, domain.ErrNotFound
	}
	return e.payload, nil
}

// Set stores a payload for a variant with the configured TTL.
func (pc *PayloadCache) Set(_ context.Context, variant domain.Variant, payload domain.ScreenerPayload) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.entries[variant] = entry{
		payload:   payload,
		expiresAt: pc.now().Add(pc.ttl),
	}
	return nil
}

// Clear drops every cached payload.
func (pc *PayloadCache) Clear(_ context.Context) error {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.entries = make(map[domain.Variant]entry)
	return nil
}

// Compile-time interface check.
var _ domain.PayloadCache = (*PayloadCache)(nil)
