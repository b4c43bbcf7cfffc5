package screener

import (
	"math"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// Scoring defaults used when a candidate is missing a driving field. These
// soften scoring only; eligibility still works off the real (nil) values.
const (
	defaultScoreHours = 24.0
	defaultScorePrice = 0.2
)

// OpportunityScore rates a price-band candidate 0-100. Time to close weighs
// heaviest (short windows pay out soonest), then volume, then price band
// (lower bands mean larger payout multiples).
func (cfg Config) OpportunityScore(c *domain.Candidate) int {
	hours := defaultScoreHours
	if c.HoursToClose != nil {
		hours = *c.HoursToClose
	}
	price := defaultScorePrice
	if c.BestPrice != nil {
		price = *c.BestPrice
	}

	s := cfg.Scoring
	total := windowPoints(s.OpportunityTime, hours, s.OpportunityTimeFloor)
	total += tierPoints(s.OpportunityVolume, c.VolumeOrZero(), s.OpportunityVolFloor)
	total += s.OpportunityBandPoints[priceBand(price)]
	return clampScore(total)
}

// FlippedScore rates a reversal candidate 0-100. Volume and move magnitude
// weigh equally; the time sub-score is non-monotonic, preferring a one-to-
// three-day window where a reversal has room to develop without the open
// time dominating.
func (cfg Config) FlippedScore(c *domain.Candidate) int {
	s := cfg.Scoring

	move := 0.0
	if c.OneDayPriceChange != nil {
		move = math.Abs(*c.OneDayPriceChange)
	}

	total := tierPoints(s.FlipVolume, c.VolumeOrZero(), s.FlipVolFloor)
	total += tierPoints(s.FlipMove, move, s.FlipMoveFloor)
	total += flipWindowPoints(c.HoursToClose)
	return clampScore(total)
}

// flipWindowPoints scores the reversal window: 24-72h is ideal, the bands on
// either side are acceptable, and the extremes score low.
func flipWindowPoints(hoursToClose *float64) int {
	if hoursToClose == nil {
		return 10
	}
	h := *hoursToClose
	switch {
	case h >= 24 && h <= 72:
		return 20
	case (h >= 12 && h < 24) || (h > 72 && h <= 120):
		return 14
	case h < 12:
		return 8
	default:
		return 5
	}
}

// VelocityScore rates a momentum candidate 0-100. Volume weighs heaviest,
// then the daily-move sweet spot (3-8% is a real move that is not yet a
// blowout), then a trend-confirmation bonus against the weekly change.
func (cfg Config) VelocityScore(c *domain.Candidate) int {
	s := cfg.Scoring

	total := tierPoints(s.VelocityVolume, c.VolumeOrZero(), s.VelocityVolFloor)
	total += velocitySweetSpot(c.OneDayPriceChange)
	total += trendConfirmation(c.OneDayPriceChange, c.OneWeekPriceChange)
	return clampScore(total)
}

// velocitySweetSpot scores the absolute daily move: the 3-8% band is ideal,
// near-zero means no momentum, and beyond 20% the move reads as news-driven
// noise rather than a tradeable trend.
func velocitySweetSpot(oneDay *float64) int {
	if oneDay == nil {
		return 0
	}
	m := math.Abs(*oneDay)
	switch {
	case m >= 0.03 && m <= 0.08:
		return 35
	case (m >= 0.02 && m < 0.03) || (m > 0.08 && m <= 0.12):
		return 26
	case m > 0.12 && m <= 0.20:
		return 15
	case m >= 0.01 && m < 0.02:
		return 10
	case m > 0.20:
		return 6
	default:
		return 4
	}
}

// trendConfirmation compares the daily move against the weekly move: the
// same sign confirms the trend (more so when the week moved a lot), an
// opposite sign reads as chop, and missing data earns a flat low-moderate
// default.
func trendConfirmation(oneDay, oneWeek *float64) int {
	if oneDay == nil || oneWeek == nil {
		return 8
	}
	sameSign := (*oneDay >= 0) == (*oneWeek >= 0)
	if !sameSign {
		return 4
	}
	week := math.Abs(*oneWeek)
	switch {
	case week >= 0.10:
		return 20
	case week >= 0.05:
		return 15
	default:
		return 10
	}
}

// ScoreFor returns the scoring formula for a variant.
func (cfg Config) ScoreFor(variant domain.Variant) func(*domain.Candidate) int {
	switch variant {
	case domain.VariantFlip:
		return cfg.FlippedScore
	case domain.VariantVelocity:
		return cfg.VelocityScore
	default:
		return cfg.OpportunityScore
	}
}

// Score annotates every candidate in place with the variant's formula.
func (cfg Config) Score(cands []domain.Candidate, variant domain.Variant) {
	score := cfg.ScoreFor(variant)
	for i := range cands {
		v := score(&cands[i])
		cands[i].Score = &v
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
