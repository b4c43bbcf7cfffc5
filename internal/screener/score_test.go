package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

func TestOpportunityScore(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("imminent cheap candidate", func(t *testing.T) {
		c := &domain.Candidate{
			HoursToClose: fptr(2),
			Volume:       fptr(20_000),
			BestPrice:    fptr(0.03),
		}
		// 50 time + 7 volume + 20 band.
		assert.Equal(t, 77, cfg.OpportunityScore(c))
	})

	t.Run("max score", func(t *testing.T) {
		c := &domain.Candidate{
			HoursToClose: fptr(1),
			Volume:       fptr(2_000_000),
			BestPrice:    fptr(0.03),
		}
		assert.Equal(t, 100, cfg.OpportunityScore(c))
	})

	t.Run("missing fields earn floors", func(t *testing.T) {
		// Defaults: 24h window, zero volume, 0.20 price.
		// 28 time + 2 volume floor + 5 band.
		assert.Equal(t, 35, cfg.OpportunityScore(&domain.Candidate{}))
	})

	t.Run("tier boundaries are inclusive", func(t *testing.T) {
		c := &domain.Candidate{
			HoursToClose: fptr(4),
			Volume:       fptr(10_000),
			BestPrice:    fptr(0.05),
		}
		// 50 + 7 + 20.
		assert.Equal(t, 77, cfg.OpportunityScore(c))
	})
}

func TestFlippedScore(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("large reversal", func(t *testing.T) {
		c := &domain.Candidate{
			HoursToClose:      fptr(12),
			Volume:            fptr(60_000),
			OneDayPriceChange: fptr(0.55),
		}
		// 14 volume + 40 move + 14 window.
		assert.Equal(t, 68, cfg.FlippedScore(c))
	})

	t.Run("direction does not matter", func(t *testing.T) {
		up := &domain.Candidate{Volume: fptr(60_000), OneDayPriceChange: fptr(0.55)}
		down := &domain.Candidate{Volume: fptr(60_000), OneDayPriceChange: fptr(-0.55)}
		assert.Equal(t, cfg.FlippedScore(up), cfg.FlippedScore(down))
	})

	t.Run("max score", func(t *testing.T) {
		c := &domain.Candidate{
			HoursToClose:      fptr(48),
			Volume:            fptr(2_000_000),
			OneDayPriceChange: fptr(0.6),
		}
		assert.Equal(t, 100, cfg.FlippedScore(c))
	})

	t.Run("missing fields earn floors", func(t *testing.T) {
		// 3 volume floor + 8 move floor + 10 unknown window.
		assert.Equal(t, 21, cfg.FlippedScore(&domain.Candidate{}))
	})
}

func TestFlipWindowPoints(t *testing.T) {
	cases := []struct {
		hours *float64
		want  int
	}{
		{fptr(24), 20},
		{fptr(48), 20},
		{fptr(72), 20},
		{fptr(12), 14},
		{fptr(100), 14},
		{fptr(2), 8},
		{fptr(200), 5},
		{nil, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, flipWindowPoints(tc.hours))
	}
}

func TestVelocityScore(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("confirmed trend in sweet spot", func(t *testing.T) {
		c := &domain.Candidate{
			Volume:             fptr(300_000),
			OneDayPriceChange:  fptr(0.04),
			OneWeekPriceChange: fptr(0.15),
		}
		// 31 volume + 35 sweet spot + 20 trend.
		assert.Equal(t, 86, cfg.VelocityScore(c))
	})

	t.Run("max score", func(t *testing.T) {
		c := &domain.Candidate{
			Volume:             fptr(2_000_000),
			OneDayPriceChange:  fptr(0.05),
			OneWeekPriceChange: fptr(0.20),
		}
		assert.Equal(t, 100, cfg.VelocityScore(c))
	})
}

func TestVelocitySweetSpot(t *testing.T) {
	cases := []struct {
		move *float64
		want int
	}{
		{fptr(0.03), 35},
		{fptr(0.08), 35},
		{fptr(-0.05), 35},
		{fptr(0.02), 26},
		{fptr(0.10), 26},
		{fptr(0.15), 15},
		{fptr(0.015), 10},
		{fptr(0.30), 6},
		{fptr(0.005), 4},
		{nil, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, velocitySweetSpot(tc.move))
	}
}

func TestTrendConfirmation(t *testing.T) {
	assert.Equal(t, 20, trendConfirmation(fptr(0.04), fptr(0.15)))
	assert.Equal(t, 20, trendConfirmation(fptr(-0.04), fptr(-0.15)))
	assert.Equal(t, 15, trendConfirmation(fptr(0.04), fptr(0.07)))
	assert.Equal(t, 10, trendConfirmation(fptr(0.04), fptr(0.01)))
	assert.Equal(t, 4, trendConfirmation(fptr(0.04), fptr(-0.15)))
	assert.Equal(t, 8, trendConfirmation(nil, fptr(0.15)))
	assert.Equal(t, 8, trendConfirmation(fptr(0.04), nil))
}

func TestScoreAnnotatesInPlace(t *testing.T) {
	cfg := DefaultConfig()
	cands := []domain.Candidate{
		{HoursToClose: fptr(2), Volume: fptr(20_000), BestPrice: fptr(0.03)},
		{},
	}
	cfg.Score(cands, domain.VariantOpportunity)

	assert.NotNil(t, cands[0].Score)
	assert.Equal(t, 77, *cands[0].Score)
	assert.NotNil(t, cands[1].Score)
	assert.Equal(t, 35, *cands[1].Score)
}

func TestScoreForDispatch(t *testing.T) {
	cfg := DefaultConfig()
	c := &domain.Candidate{
		HoursToClose:       fptr(48),
		Volume:             fptr(60_000),
		BestPrice:          fptr(0.03),
		OneDayPriceChange:  fptr(0.04),
		OneWeekPriceChange: fptr(0.15),
	}
	assert.Equal(t, cfg.OpportunityScore(c), cfg.ScoreFor(domain.VariantOpportunity)(c))
	assert.Equal(t, cfg.FlippedScore(c), cfg.ScoreFor(domain.VariantFlip)(c))
	assert.Equal(t, cfg.VelocityScore(c), cfg.ScoreFor(domain.VariantVelocity)(c))
}

func TestScoresStayInRange(t *testing.T) {
	cfg := DefaultConfig()
	extremes := []domain.Candidate{
		{},
		{HoursToClose: fptr(0.1), Volume: fptr(1e9), BestPrice: fptr(0.011),
			OneDayPriceChange: fptr(0.99), OneWeekPriceChange: fptr(0.99)},
		{HoursToClose: fptr(1e6), Volume: fptr(0), BestPrice: fptr(0.99),
			OneDayPriceChange: fptr(-0.99), OneWeekPriceChange: fptr(0.99)},
	}
	for i := range extremes {
		for _, v := range domain.Variants() {
			score := cfg.ScoreFor(v)(&extremes[i])
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}
