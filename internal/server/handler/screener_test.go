package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

type stubScreener struct {
	payload domain.ScreenerPayload
	err     error
}

func (s *stubScreener) Run(_ context.Context, variant domain.Variant) (domain.ScreenerPayload, error) {
	if s.err != nil {
		return domain.ScreenerPayload{}, s.err
	}
	p := s.payload
	p.Variant = variant
	return p, nil
}

type stubCache struct {
	domain.PayloadCache
	cleared  bool
	clearErr error
}

func (s *stubCache) Clear(context.Context) error {
	s.cleared = true
	return s.clearErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func getVariant(h *ScreenerHandler, variant string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/screener/{variant}", h.GetVariant)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screener/"+variant, nil))
	return rec
}

func TestGetVariantOK(t *testing.T) {
	stub := &stubScreener{payload: domain.ScreenerPayload{
		GeneratedAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Categories: map[string][]domain.Candidate{
			"oneToFive": {{Question: "q"}},
		},
	}}
	h := NewScreenerHandler(stub, nil, discardLogger())

	rec := getVariant(h, "opportunity")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var payload domain.ScreenerPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, domain.VariantOpportunity, payload.Variant)
	assert.Len(t, payload.Categories["oneToFive"], 1)
}

func TestGetVariantUnknown(t *testing.T) {
	h := NewScreenerHandler(&stubScreener{}, nil, discardLogger())

	rec := getVariant(h, "momentum")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown variant")
}

func TestGetVariantErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"unavailable", domain.ErrUpstreamUnavailable, http.StatusBadGateway, "upstream feed unavailable"},
		{"malformed", domain.ErrUpstreamMalformed, http.StatusInternalServerError, "malformed"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "screener run failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewScreenerHandler(&stubScreener{err: tc.err}, nil, discardLogger())
			rec := getVariant(h, "flip")
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestClearCache(t *testing.T) {
	cache := &stubCache{}
	h := NewScreenerHandler(&stubScreener{}, cache, discardLogger())

	rec := httptest.NewRecorder()
	h.ClearCache(rec, httptest.NewRequest(http.MethodPost, "/api/cache/clear", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cache.cleared)
	assert.Contains(t, rec.Body.String(), "cleared")
}

func TestClearCacheWithoutCache(t *testing.T) {
	h := NewScreenerHandler(&stubScreener{}, nil, discardLogger())

	rec := httptest.NewRecorder()
	h.ClearCache(rec, httptest.NewRequest(http.MethodPost, "/api/cache/clear", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClearCacheFailure(t *testing.T) {
	cache := &stubCache{clearErr: errors.New("redis down")}
	h := NewScreenerHandler(&stubScreener{}, cache, discardLogger())

	rec := httptest.NewRecorder()
	h.ClearCache(rec, httptest.NewRequest(http.MethodPost, "/api/cache/clear", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
