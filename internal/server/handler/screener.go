package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// ScreenerService defines what the screener handler requires from the
// pipeline. It is declared locally so the handler package does not depend on
// the concrete screener implementation.
type ScreenerService interface {
	Run(ctx context.Context, variant domain.Variant) (domain.ScreenerPayload, error)
}

// ScreenerHandler serves the per-variant screener payloads.
type ScreenerHandler struct {
	screener ScreenerService
	cache    domain.PayloadCache // may be nil
	logger   *slog.Logger
}

// NewScreenerHandler creates a ScreenerHandler. cache may be nil when no
// payload cache is configured; the clear endpoint then becomes a no-op.
func NewScreenerHandler(screener ScreenerService, cache domain.PayloadCache, logger *slog.Logger) *ScreenerHandler {
	return &ScreenerHandler{
		screener: screener,
		cache:    cache,
		logger:   logger,
	}
}

// GetVariant computes (or serves from cache) the payload for one variant.
// GET /api/screener/{variant}
func (h *ScreenerHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	variant, err := domain.ParseVariant(pathParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown variant")
		return
	}

	payload, err := h.screener.Run(r.Context(), variant)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: screener run failed",
			slog.String("variant", string(variant)),
			slog.String("error", err.Error()),
		)
		if domain.Retryable(err) {
			writeError(w, http.StatusBadGateway, "upstream feed unavailable")
			return
		}
		if errors.Is(err, domain.ErrUpstreamMalformed) {
			writeError(w, http.StatusInternalServerError, "upstream feed returned malformed data")
			return
		}
		writeError(w, http.StatusInternalServerError, "screener run failed")
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// ClearCache drops every cached payload so the next request recomputes.
// POST /api/cache/clear
func (h *ScreenerHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if err := h.cache.Clear(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "handler: cache clear failed",
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to clear cache")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
