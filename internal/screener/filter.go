package screener

import (
	"math"
	"strings"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// Predicate is one eligibility rule. A variant's rules are AND-combined; a
// nil driving field fails the rule (conservative exclusion) except where a
// rule documents otherwise.
type Predicate func(*domain.Candidate) bool

// WindowPredicate keeps candidates that close within windowHours from the
// evaluation instant and are not already resolved. HoursToClose is nil for
// past or unparseable end dates, so those fail here.
func WindowPredicate(windowHours float64) Predicate {
	return func(c *domain.Candidate) bool {
		if c.HoursToClose == nil || *c.HoursToClose <= 0 || *c.HoursToClose > windowHours {
			return false
		}
		if c.ResolutionState != nil && strings.EqualFold(*c.ResolutionState, "resolved") {
			return false
		}
		return true
	}
}

// LiquidityPredicate keeps candidates with at least floor volume. A missing
// volume counts as zero rather than failing outright.
func LiquidityPredicate(floor float64) Predicate {
	return func(c *domain.Candidate) bool {
		return c.VolumeOrZero() >= floor
	}
}

// PriceBandPredicate keeps candidates whose best price falls inside one of
// the four screener bands, i.e. anywhere in [0.01, 0.20].
func PriceBandPredicate() Predicate {
	return func(c *domain.Candidate) bool {
		return c.BestPrice != nil && priceBand(*c.BestPrice) != ""
	}
}

// MovePredicate keeps candidates whose absolute one-day change is at least
// threshold. Used with the flip threshold for reversal detection and the
// lower velocity threshold for momentum detection.
func MovePredicate(threshold float64) Predicate {
	return func(c *domain.Candidate) bool {
		return c.OneDayPriceChange != nil && math.Abs(*c.OneDayPriceChange) >= threshold
	}
}

// PredicatesFor returns the ordered rule set for a variant.
func (cfg Config) PredicatesFor(variant domain.Variant) []Predicate {
	window := WindowPredicate(cfg.WindowHours)
	switch variant {
	case domain.VariantOpportunity:
		return []Predicate{
			window,
			LiquidityPredicate(cfg.OpportunityMinVolume),
			PriceBandPredicate(),
		}
	case domain.VariantFlip:
		return []Predicate{
			window,
			LiquidityPredicate(cfg.MoveMinVolume),
			MovePredicate(cfg.FlipMinMove),
		}
	case domain.VariantVelocity:
		return []Predicate{
			window,
			LiquidityPredicate(cfg.MoveMinVolume),
			MovePredicate(cfg.VelocityMinMove),
		}
	default:
		return nil
	}
}

// Filter returns the candidates that pass every predicate, preserving input
// order.
func Filter(cands []domain.Candidate, preds []Predicate) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(cands))
	for i := range cands {
		ok := true
		for _, p := range preds {
			if !p(&cands[i]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, cands[i])
		}
	}
	return out
}
