// Package polymarket implements the Gamma API fetch collaborator. It owns
// request construction, the HTTP call, and unwrapping of the wire response;
// the screener core only ever sees a materialized batch of raw events.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// DefaultBaseURL is the production Gamma API root.
const DefaultBaseURL = "https://gamma-api.polymarket.com"

// GammaConfig holds the request parameters for one client.
type GammaConfig struct {
	// BaseURL is the Gamma API root; empty means DefaultBaseURL.
	BaseURL string
	// Limit caps the number of events per fetch. Zero means the server default.
	Limit int
	// WindowHours bounds the date window: only events ending between now and
	// now+WindowHours are requested. Zero disables the window parameters.
	WindowHours float64
	// IncludeTags / ExcludeTags filter events by tag slug.
	IncludeTags []string
	ExcludeTags []string
	// Timeout bounds each HTTP call. Zero means 30s.
	Timeout time.Duration
}

// GammaClient is the REST client for the Polymarket Gamma events feed.
type GammaClient struct {
	baseURL    string
	cfg        GammaConfig
	httpClient *http.Client
}

// NewGammaClient validates the configured base endpoint and creates a
// client. A malformed base URL is ErrInvalidConfig.
func NewGammaClient(cfg GammaConfig) (*GammaClient, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("polymarket/gamma: %w: base url %q", domain.ErrInvalidConfig, base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GammaClient{
		baseURL:    strings.TrimRight(u.String(), "/"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// FetchEvents fetches one batch of active events inside the configured date
// window. The response body is accepted as a bare array, an object with an
// "events" array, or an object with a "markets" array; anything else is
// ErrUpstreamMalformed.
func (g *GammaClient) FetchEvents(ctx context.Context) ([]domain.RawEvent, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	if g.cfg.Limit > 0 {
		params.Set("limit", strconv.Itoa(g.cfg.Limit))
	}
	if g.cfg.WindowHours > 0 {
		now := time.Now().UTC()
		params.Set("end_date_min", now.Format(time.RFC3339))
		params.Set("end_date_max", now.Add(time.Duration(g.cfg.WindowHours*float64(time.Hour))).Format(time.RFC3339))
	}
	for _, tag := range g.cfg.IncludeTags {
		params.Add("tag_slug", tag)
	}
	for _, tag := range g.cfg.ExcludeTags {
		params.Add("exclude_tag_slug", tag)
	}

	body, err := g.doGet(ctx, "/events?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: fetch events: %w", err)
	}

	events, err := decodeBatch(body)
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: %w", err)
	}
	return events, nil
}

// decodeBatch unwraps the three accepted response shapes.
func decodeBatch(body []byte) ([]domain.RawEvent, error) {
	// A literal null unmarshals into a nil slice here; fall through so it
	// fails the shape check instead of passing as an empty batch.
	var bare []domain.RawEvent
	if err := json.Unmarshal(body, &bare); err == nil && bare != nil {
		return bare, nil
	}

	var wrapped struct {
		Events  []domain.RawEvent `json:"events"`
		Markets []domain.RawEvent `json:"markets"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamMalformed, err)
	}
	if wrapped.Events != nil {
		return wrapped.Events, nil
	}
	if wrapped.Markets != nil {
		return wrapped.Markets, nil
	}
	return nil, fmt.Errorf("%w: response matches no accepted shape", domain.ErrUpstreamMalformed)
}

// doGet sends an unauthenticated GET request to the Gamma API and maps
// transport and status failures onto the domain error taxonomy.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamMalformed, resp.StatusCode, truncate(body, 256))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
