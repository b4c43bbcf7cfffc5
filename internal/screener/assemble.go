package screener

import (
	"math"
	"sort"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// Category keys. Each variant partitions its candidates into a fixed set of
// named, non-overlapping ranges; a candidate whose driving value is outside
// every range is dropped, not shunted into a catch-all.
const (
	CategoryOneToFive       = "oneToFive"
	CategoryFiveToTen       = "fiveToTen"
	CategoryTenToFifteen    = "tenToFifteen"
	CategoryFifteenToTwenty = "fifteenToTwenty"

	CategoryTwentyToFifty = "twentyToFifty"
	CategoryAboveFifty    = "aboveFifty"

	CategoryTenToTwenty    = "tenToTwenty"
	CategoryTwentyToThirty = "twentyToThirty"
	CategoryAboveThirty    = "aboveThirty"
)

// priceBand maps a best price to its screener band, or "" outside
// [0.01, 0.20]. Band edges are inclusive on the upper side, matching the
// eligibility predicate.
func priceBand(price float64) string {
	switch {
	case price < 0.01:
		return ""
	case price <= 0.05:
		return CategoryOneToFive
	case price <= 0.10:
		return CategoryFiveToTen
	case price <= 0.15:
		return CategoryTenToFifteen
	case price <= 0.20:
		return CategoryFifteenToTwenty
	default:
		return ""
	}
}

// moveBand maps an absolute one-day change to a flip category at the
// 20%/50% cutoffs.
func moveBand(move float64) string {
	switch {
	case move >= 0.50:
		return CategoryAboveFifty
	case move >= 0.20:
		return CategoryTwentyToFifty
	default:
		return ""
	}
}

// velocityBand maps an absolute one-day change to a momentum category at
// the 10%/20%/30% cutoffs.
func velocityBand(move float64) string {
	switch {
	case move >= 0.30:
		return CategoryAboveThirty
	case move >= 0.20:
		return CategoryTwentyToThirty
	case move >= 0.10:
		return CategoryTenToTwenty
	default:
		return ""
	}
}

// categorize returns the category key for a candidate under the given
// variant, or "" when it falls outside every range.
func categorize(c *domain.Candidate, variant domain.Variant) string {
	switch variant {
	case domain.VariantOpportunity:
		if c.BestPrice == nil {
			return ""
		}
		return priceBand(*c.BestPrice)
	case domain.VariantFlip:
		if c.OneDayPriceChange == nil {
			return ""
		}
		return moveBand(math.Abs(*c.OneDayPriceChange))
	case domain.VariantVelocity:
		if c.OneDayPriceChange == nil {
			return ""
		}
		return velocityBand(math.Abs(*c.OneDayPriceChange))
	default:
		return ""
	}
}

// Assemble partitions scored candidates into the variant's categories, ranks
// each category by descending score, and truncates to capacity. The sort is
// stable, so equal scores keep their arrival order and already-placed entries
// are never evicted by later ones.
func Assemble(cands []domain.Candidate, variant domain.Variant, capacity int) map[string][]domain.Candidate {
	if capacity <= 0 {
		capacity = 5
	}

	buckets := make(map[string][]domain.Candidate)
	for i := range cands {
		key := categorize(&cands[i], variant)
		if key == "" {
			continue
		}
		buckets[key] = append(buckets[key], cands[i])
	}

	for key, list := range buckets {
		sort.SliceStable(list, func(i, j int) bool {
			return scoreOf(&list[i]) > scoreOf(&list[j])
		})
		if len(list) > capacity {
			list = list[:capacity]
		}
		buckets[key] = list
	}
	return buckets
}

func scoreOf(c *domain.Candidate) int {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}
