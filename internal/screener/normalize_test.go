package screener

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeExpandsMarkets(t *testing.T) {
	raw := domain.RawEvent{
		"title": "Event title",
		"slug":  "event-slug",
		"markets": []any{
			map[string]any{"question": "Market one?", "slug": "market-one"},
			map[string]any{"question": "Market two?"},
		},
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 2)
	assert.Equal(t, "Market one?", cands[0].Question)
	assert.Equal(t, "Market two?", cands[1].Question)
	assert.Equal(t, "https://polymarket.com/market/market-one", cands[0].URL)
	assert.Equal(t, "https://polymarket.com/event/event-slug", cands[0].EventURL)
	// Market without a slug falls back to the event deep link.
	assert.Equal(t, "https://polymarket.com/event/event-slug", cands[1].URL)
}

func TestNormalizeEventWithoutMarkets(t *testing.T) {
	raw := domain.RawEvent{
		"title":   "Bare event",
		"endDate": testNow.Add(5 * time.Hour).Format(time.RFC3339),
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 1)
	assert.Equal(t, "Bare event", cands[0].Question)
	require.NotNil(t, cands[0].HoursToClose)
	assert.Equal(t, 5.0, *cands[0].HoursToClose)
	assert.Nil(t, cands[0].BestPrice)
	assert.Nil(t, cands[0].Volume)
}

func TestNormalizeEmptyEventStillYieldsPlaceholder(t *testing.T) {
	cands := Normalize(domain.RawEvent{}, testNow)
	require.Len(t, cands, 1)
	assert.Equal(t, "", cands[0].Question)
	assert.Nil(t, cands[0].EndDate)
	assert.Nil(t, cands[0].HoursToClose)
	assert.Equal(t, "https://polymarket.com", cands[0].URL)
	assert.Equal(t, "https://polymarket.com", cands[0].EventURL)
}

func TestNormalizeMarketFieldsWinOverEvent(t *testing.T) {
	raw := domain.RawEvent{
		"question":          "Event question?",
		"volume":            float64(1000),
		"oneDayPriceChange": 0.5,
		"endDate":           testNow.Add(48 * time.Hour).Format(time.RFC3339),
		"markets": []any{
			map[string]any{
				"question":          "Market question?",
				"volumeNum":         float64(2000),
				"oneDayPriceChange": -0.1,
				"endDate":           testNow.Add(24 * time.Hour).Format(time.RFC3339),
			},
		},
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 1)
	c := cands[0]
	assert.Equal(t, "Market question?", c.Question)
	require.NotNil(t, c.Volume)
	assert.Equal(t, 2000.0, *c.Volume)
	require.NotNil(t, c.OneDayPriceChange)
	assert.Equal(t, -0.1, *c.OneDayPriceChange)
	require.NotNil(t, c.HoursToClose)
	assert.Equal(t, 24.0, *c.HoursToClose)
}

func TestNormalizeMarketFallsBackToEventFields(t *testing.T) {
	raw := domain.RawEvent{
		"question": "Event question?",
		"volume":   float64(5000),
		"endDate":  testNow.Add(10 * time.Hour).Format(time.RFC3339),
		"markets": []any{
			map[string]any{"id": float64(77)},
		},
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 1)
	c := cands[0]
	assert.Equal(t, "77", c.Question) // market id beats event question in the chain
	require.NotNil(t, c.Volume)
	assert.Equal(t, 5000.0, *c.Volume)
	require.NotNil(t, c.HoursToClose)
	assert.Equal(t, 10.0, *c.HoursToClose)
}

func TestNormalizeDatelessMarketInheritsEarliestSiblingEndDate(t *testing.T) {
	later := testNow.Add(72 * time.Hour)
	earlier := testNow.Add(6 * time.Hour)
	raw := domain.RawEvent{
		"title": "No direct date",
		"markets": []any{
			map[string]any{"question": "Dated later?", "endDate": later.Format(time.RFC3339)},
			map[string]any{"question": "Dated earlier?", "endDate": earlier.Format(time.RFC3339)},
			map[string]any{"question": "Dateless?"},
		},
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 3)

	// Dated markets keep their own dates.
	require.NotNil(t, cands[0].EndDate)
	assert.Equal(t, later, *cands[0].EndDate)
	require.NotNil(t, cands[1].EndDate)
	assert.Equal(t, earlier, *cands[1].EndDate)

	// The dateless market falls back to the earliest sibling date and stays
	// inside the eligibility window.
	require.NotNil(t, cands[2].EndDate)
	assert.Equal(t, earlier, *cands[2].EndDate)
	require.NotNil(t, cands[2].HoursToClose)
	assert.Equal(t, 6.0, *cands[2].HoursToClose)
}

func TestNormalizeEventDirectDateBeatsSiblingScan(t *testing.T) {
	direct := testNow.Add(12 * time.Hour)
	raw := domain.RawEvent{
		"title":   "Direct date",
		"endDate": direct.Format(time.RFC3339),
		"markets": []any{
			map[string]any{"question": "Dateless?"},
			map[string]any{"question": "Dated?", "endDate": testNow.Add(3 * time.Hour).Format(time.RFC3339)},
		},
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 2)
	require.NotNil(t, cands[0].EndDate)
	assert.Equal(t, direct, *cands[0].EndDate)
}

func TestNormalizeBestPriceAndParallelArrays(t *testing.T) {
	raw := domain.RawEvent{
		"markets": []any{
			map[string]any{
				"question":      "Prices?",
				"outcomes":      `["Yes","No","Maybe"]`,
				"outcomePrices": `["0","0.03","0.97"]`,
			},
		},
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 1)
	c := cands[0]
	assert.Len(t, c.Outcomes, 3)
	assert.Len(t, c.OutcomePrices, 3)
	require.NotNil(t, c.BestPrice)
	assert.Equal(t, 0.03, *c.BestPrice)
}

func TestNormalizeNeverProducesNonFiniteNumbers(t *testing.T) {
	hostile := domain.RawEvent{
		"question":            "Hostile",
		"volume":              "NaN",
		"oneDayPriceChange":   "Infinity",
		"oneWeekPriceChange":  true,
		"oneMonthPriceChange": map[string]any{},
		"endDate":             "not a date",
		"outcomePrices":       []any{"Inf", "-Inf", "oops", 0.5},
		"markets":             "not a list",
		"tags":                []any{nil, true, []any{}},
	}

	cands := Normalize(hostile, testNow)
	require.Len(t, cands, 1)
	c := cands[0]

	assert.Nil(t, c.Volume)
	assert.Nil(t, c.OneDayPriceChange)
	assert.Nil(t, c.OneWeekPriceChange)
	assert.Nil(t, c.OneMonthPriceChange)
	assert.Nil(t, c.EndDate)
	assert.Nil(t, c.HoursToClose)
	assert.Empty(t, c.Tags)

	for _, p := range c.OutcomePrices {
		assert.False(t, math.IsNaN(p) || math.IsInf(p, 0))
	}
	require.NotNil(t, c.BestPrice)
	assert.Equal(t, 0.5, *c.BestPrice)
}

func TestNormalizeElapsedEndDateScenario(t *testing.T) {
	// An event that ended an hour ago is indistinguishable from one with no
	// end date downstream.
	raw := domain.RawEvent{
		"title":   "Already over",
		"endDate": testNow.Add(-time.Hour).Format(time.RFC3339),
	}

	cands := Normalize(raw, testNow)
	require.Len(t, cands, 1)
	require.NotNil(t, cands[0].EndDate)
	assert.Nil(t, cands[0].HoursToClose)
	assert.Nil(t, cands[0].TimeToEnd)

	for _, variant := range domain.Variants() {
		eligible := Filter(cands, DefaultConfig().PredicatesFor(variant))
		assert.Empty(t, eligible, "variant %s must exclude elapsed events", variant)
	}
}
