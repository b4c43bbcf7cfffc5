package domain

import "time"

// RawEvent is one event record as fetched from the Gamma feed, before
// normalization. The upstream field shapes vary wildly between event
// categories and API revisions, so it stays an untyped key-value map and is
// treated as read-only: the normalizer never mutates it.
type RawEvent map[string]any

// Tag is one normalized tag/category attached to a candidate.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Candidate is one normalized market (or bare event) produced by the
// screener's normalizer. Nullable fields use pointer types; a nil pointer
// means the upstream carried no resolvable value. Numeric fields are always
// finite: NaN and Inf never survive normalization.
type Candidate struct {
	Question        string     `json:"question"`
	EndDate         *time.Time `json:"endDate"`
	HoursToClose    *float64   `json:"hoursToClose"`
	TimeToEnd       *string    `json:"timeToEnd"` // "HH:MM:SS" countdown
	ResolutionState *string    `json:"resolutionState"`
	Tags            []Tag      `json:"tags"`
	Outcomes        []string   `json:"outcomes"`
	OutcomePrices   []float64  `json:"outcomePrices"`
	BestPrice       *float64   `json:"bestPrice"`
	Volume          *float64   `json:"volume"`

	OneDayPriceChange   *float64 `json:"oneDayPriceChange"`
	OneWeekPriceChange  *float64 `json:"oneWeekPriceChange"`
	OneMonthPriceChange *float64 `json:"oneMonthPriceChange"`

	URL      string `json:"url"`
	EventURL string `json:"eventUrl"`

	// Score is populated by the scoring engine; nil before scoring.
	Score *int `json:"score,omitempty"`
}

// VolumeOrZero returns the candidate's volume, treating missing as zero.
// Liquidity checks use this; every other predicate treats nil as failing.
func (c *Candidate) VolumeOrZero() float64 {
	if c.Volume == nil {
		return 0
	}
	return *c.Volume
}

// ScreenerPayload is the full output of one pipeline run for one variant:
// a mapping from category key to the ranked, capacity-capped candidates.
type ScreenerPayload struct {
	Variant     Variant                `json:"variant"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Categories  map[string][]Candidate `json:"categories"`
}
