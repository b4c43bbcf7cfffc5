package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

const defaultPayloadTTL = 60 * time.Second

// PayloadCache implements domain.PayloadCache on Redis string keys holding
// JSON-serialized payloads with a per-key TTL.
//
// Key schema:
//
//	screener:{variant} - JSON ScreenerPayload
type PayloadCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPayloadCache creates a PayloadCache backed by the given Client. A
// non-positive ttl falls back to 60 seconds.
func NewPayloadCache(c *Client, ttl time.Duration) *PayloadCache {
	if ttl <= 0 {
		ttl = defaultPayloadTTL
	}
	return &PayloadCache{rdb: c.Underlying(), ttl: ttl}
}

func payloadKey(variant domain.Variant) string { return "screener:" + string(variant) }

// Get retrieves a payload by variant. It returns domain.ErrNotFound when the
// key does not exist or has expired.
func (pc *PayloadCache) Get(ctx context.Context, variant domain.Variant) (domain.ScreenerPayload, error) {
	data, err := pc.rdb.Get(ctx, payloadKey(variant)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ScreenerPayload{}, domain.ErrNotFound
		}
		return domain.ScreenerPayload{}, fmt.Errorf("redis: get payload %s: %w", variant, err)
	}

	var payload domain.ScreenerPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.ScreenerPayload{}, fmt.Errorf("redis: unmarshal payload %s: %w", variant, err)
	}
	return payload, nil
}

// Set stores a payload under its variant key with the configured TTL.
func (pc *PayloadCache) Set(ctx context.Context, variant domain.Variant, payload domain.ScreenerPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("redis: marshal payload %s: %w", variant, err)
	}
	if err := pc.rdb.Set(ctx, payloadKey(variant), data, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set payload %s: %w", variant, err)
	}
	return nil
}

// Clear removes every variant's payload.
func (pc *PayloadCache) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(domain.Variants()))
	for _, v := range domain.Variants() {
		keys = append(keys, payloadKey(v))
	}
	if err := pc.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: clear payloads: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.PayloadCache = (*PayloadCache)(nil)
