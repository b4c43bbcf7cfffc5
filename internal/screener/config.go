package screener

// Config holds every tunable threshold of the screener pipeline. The point
// tables and cutoffs have drifted between deployments, so they are plain
// data with defaults rather than constants baked into the formulas.
type Config struct {
	// WindowHours is the eligibility window: candidates closing later than
	// this many hours from the evaluation instant are excluded.
	WindowHours float64

	// OpportunityMinVolume is the liquidity floor for the price-band
	// variant; MoveMinVolume covers the flip and velocity variants.
	OpportunityMinVolume float64
	MoveMinVolume        float64

	// FlipMinMove is the minimum absolute one-day change for flip
	// eligibility; VelocityMinMove is the lower momentum threshold.
	FlipMinMove     float64
	VelocityMinMove float64

	// Capacity caps each output category's candidate list.
	Capacity int

	Scoring ScoringConfig
}

// Tier awards Points when the driving value is at or above Min. Tables are
// checked in order, so tiers must be listed highest-Min first.
type Tier struct {
	Min    float64
	Points int
}

// WindowTier awards Points when hours-to-close is at or below MaxHours.
// Tables are checked in order, so tiers must be listed lowest-MaxHours first.
type WindowTier struct {
	MaxHours float64
	Points   int
}

// ScoringConfig carries the sub-score tables for the three formulas. Each
// formula's tables are sized so its theoretical maximum is 100.
type ScoringConfig struct {
	// Opportunity: time 50 + volume 30 + price band 20.
	OpportunityTime       []WindowTier
	OpportunityTimeFloor  int
	OpportunityVolume     []Tier
	OpportunityVolFloor   int
	OpportunityBandPoints map[string]int

	// Flipped: volume 40 + move 40 + window preference 20.
	FlipVolume    []Tier
	FlipVolFloor  int
	FlipMove      []Tier
	FlipMoveFloor int

	// Velocity: volume 45 + daily sweet spot 35 + trend confirmation 20.
	VelocityVolume   []Tier
	VelocityVolFloor int
}

// DefaultConfig returns the thresholds of the current deployment.
func DefaultConfig() Config {
	return Config{
		WindowHours:          72,
		OpportunityMinVolume: 10_000,
		MoveMinVolume:        25_000,
		FlipMinMove:          0.20,
		VelocityMinMove:      0.10,
		Capacity:             5,
		Scoring: ScoringConfig{
			OpportunityTime: []WindowTier{
				{MaxHours: 4, Points: 50},
				{MaxHours: 8, Points: 42},
				{MaxHours: 12, Points: 35},
				{MaxHours: 24, Points: 28},
				{MaxHours: 48, Points: 18},
				{MaxHours: 72, Points: 10},
			},
			OpportunityTimeFloor: 4,
			OpportunityVolume: []Tier{
				{Min: 1_000_000, Points: 30},
				{Min: 500_000, Points: 26},
				{Min: 250_000, Points: 22},
				{Min: 100_000, Points: 17},
				{Min: 50_000, Points: 12},
				{Min: 10_000, Points: 7},
			},
			OpportunityVolFloor: 2,
			OpportunityBandPoints: map[string]int{
				CategoryOneToFive:       20,
				CategoryFiveToTen:       15,
				CategoryTenToFifteen:    10,
				CategoryFifteenToTwenty: 5,
			},
			FlipVolume: []Tier{
				{Min: 1_000_000, Points: 40},
				{Min: 500_000, Points: 34},
				{Min: 250_000, Points: 28},
				{Min: 100_000, Points: 21},
				{Min: 50_000, Points: 14},
				{Min: 10_000, Points: 8},
			},
			FlipVolFloor: 3,
			FlipMove: []Tier{
				{Min: 0.50, Points: 40},
				{Min: 0.35, Points: 32},
				{Min: 0.25, Points: 24},
				{Min: 0.20, Points: 16},
			},
			FlipMoveFloor: 8,
			VelocityVolume: []Tier{
				{Min: 1_000_000, Points: 45},
				{Min: 500_000, Points: 38},
				{Min: 250_000, Points: 31},
				{Min: 100_000, Points: 24},
				{Min: 50_000, Points: 16},
				{Min: 10_000, Points: 9},
			},
			VelocityVolFloor: 4,
		},
	}
}

// tierPoints walks a descending table and returns the first tier the value
// reaches, or floor when it reaches none.
func tierPoints(table []Tier, value float64, floor int) int {
	for _, t := range table {
		if value >= t.Min {
			return t.Points
		}
	}
	return floor
}

// windowPoints walks an ascending table and returns the first tier the value
// fits under, or floor when it exceeds them all.
func windowPoints(table []WindowTier, hours float64, floor int) int {
	for _, t := range table {
		if hours <= t.MaxHours {
			return t.Points
		}
	}
	return floor
}
