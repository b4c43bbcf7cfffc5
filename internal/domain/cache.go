package domain

import "context"

// PayloadCache holds finished screener payloads keyed by variant. The TTL is
// owned by the implementation; the screener only asks, stores, and clears.
// A run must produce identical output with or without a cache in front of it.
type PayloadCache interface {
	Get(ctx context.Context, variant Variant) (ScreenerPayload, error)
	Set(ctx context.Context, variant Variant, payload ScreenerPayload) error
	Clear(ctx context.Context) error
}
