package screener

import (
	"time"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// siteRoot is the public site used for deep links when the feed supplies a
// slug or id; candidates with neither fall back to the bare root.
const siteRoot = "https://polymarket.com"

// Normalize converts one raw Gamma event into uniform candidates. An event
// with nested markets yields one candidate per market, each market's own
// fields taking precedence over event-level fields; an event without markets
// yields exactly one event-level candidate with nil market-specific fields.
//
// Normalization is a pure function of (raw, now): no I/O, no shared state,
// and it never fails — every resolver degrades to nil/empty instead of
// returning an error, so one bad record cannot abort a batch.
func Normalize(raw domain.RawEvent, now time.Time) []domain.Candidate {
	markets := nestedMarkets(raw)
	eventURL := deepLink(raw, "event")

	if len(markets) == 0 {
		c := buildCandidate(raw, nil, now)
		c.URL = eventURL
		c.EventURL = eventURL
		return []domain.Candidate{c}
	}

	out := make([]domain.Candidate, 0, len(markets))
	for _, m := range markets {
		c := buildCandidate(raw, m, now)
		c.EventURL = eventURL
		if u := deepLink(m, "market"); u != siteRoot {
			c.URL = u
		} else {
			c.URL = eventURL
		}
		out = append(out, c)
	}
	return out
}

// nestedMarkets extracts the raw market sub-records, skipping entries that
// are not objects.
func nestedMarkets(raw domain.RawEvent) []map[string]any {
	items, ok := raw["markets"].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// buildCandidate assembles one candidate from a market record layered over
// its event record. market may be nil for event-only candidates.
func buildCandidate(event domain.RawEvent, market map[string]any, now time.Time) domain.Candidate {
	// primary/secondary ordering: the market's own fields win, the event
	// fills the gaps.
	first, second := map[string]any(event), market
	if market != nil {
		first, second = market, event
	}

	c := domain.Candidate{}

	c.Question = resolveQuestion(first)
	if c.Question == "" && second != nil {
		c.Question = resolveQuestion(second)
	}

	c.EndDate = layeredEndDate(event, market)
	c.HoursToClose = hoursToClose(c.EndDate, now)
	c.TimeToEnd = timeToEnd(c.EndDate, now)

	c.ResolutionState = resolveResolutionState(first)
	if c.ResolutionState == nil && second != nil {
		c.ResolutionState = resolveResolutionState(second)
	}

	c.Tags = resolveTags(event, market)

	c.Outcomes = resolveStringList(first, "outcomes")
	c.OutcomePrices = resolveFloatList(first, "outcomePrices")
	if len(c.Outcomes) == 0 && len(c.OutcomePrices) == 0 && second != nil {
		c.Outcomes = resolveStringList(second, "outcomes")
		c.OutcomePrices = resolveFloatList(second, "outcomePrices")
	}
	c.BestPrice = minPositive(c.OutcomePrices)

	c.Volume = resolveVolume(first)
	if c.Volume == nil && second != nil {
		c.Volume = resolveVolume(second)
	}

	c.OneDayPriceChange = layeredChange(first, second, "oneDayPriceChange", "one_day_price_change")
	c.OneWeekPriceChange = layeredChange(first, second, "oneWeekPriceChange", "one_week_price_change")
	c.OneMonthPriceChange = layeredChange(first, second, "oneMonthPriceChange", "one_month_price_change")

	return c
}

// layeredEndDate resolves the candidate's end date. A market resolves from
// its own fields first, then the event's direct date, then the earliest
// resolvable date among the event's nested markets. The sibling scan covers
// both the event-level candidate and a dateless market inside a dateless
// event whose siblings carry dates.
func layeredEndDate(event domain.RawEvent, market map[string]any) *time.Time {
	if market != nil {
		if t := resolveEndDate(market); t != nil {
			return t
		}
	}

	if t := resolveEndDate(event); t != nil {
		return t
	}
	var earliest *time.Time
	for _, m := range nestedMarkets(event) {
		t := resolveEndDate(m)
		if t == nil {
			continue
		}
		if earliest == nil || t.Before(*earliest) {
			earliest = t
		}
	}
	return earliest
}

func layeredChange(first, second map[string]any, keys ...string) *float64 {
	if v := resolvePriceChange(first, keys...); v != nil {
		return v
	}
	if second != nil {
		return resolvePriceChange(second, keys...)
	}
	return nil
}

// deepLink builds the public URL for a record from its slug (falling back to
// id), or the site root when neither resolves.
func deepLink(rec map[string]any, kind string) string {
	if rec == nil {
		return siteRoot
	}
	if slug, ok := stringField(rec, "slug", "id"); ok {
		return siteRoot + "/" + kind + "/" + slug
	}
	return siteRoot
}
