package screener

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// Field resolvers for the untyped Gamma records. Every resolver is total:
// it never panics on a weird value, it just falls through and reports "not
// present". The fallback order of each chain is fixed and documented on the
// resolver that owns it.

// epochMillisCutoff disambiguates numeric timestamps: values at or above it
// are epoch milliseconds, below it epoch seconds.
const epochMillisCutoff = 1e12

// asFloat coerces a raw JSON value to a finite float64. Accepted inputs are
// numbers, json.Number, and numeric-looking strings. Booleans, objects,
// arrays, empty strings, and non-finite results are rejected.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return asFloat(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		return asFloat(n.String())
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asString coerces a raw JSON value to a non-empty trimmed string. Numeric
// values are stringified (ids often arrive as numbers); everything else is
// rejected.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		t := strings.TrimSpace(s)
		return t, t != ""
	case json.Number:
		return s.String(), true
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	default:
		return "", false
	}
}

// floatField returns the first coercible numeric value among keys.
func floatField(rec map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if f, ok := asFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// stringField returns the first non-empty string value among keys.
func stringField(rec map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if s, ok := asString(v); ok {
				return s, true
			}
		}
	}
	return "", false
}

// parseISO parses an ISO-8601 / RFC-3339 timestamp, tolerating the handful
// of shapes the feed has been seen to emit, and normalizes to UTC.
func parseISO(s string) (time.Time, bool) {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseEpoch interprets a numeric timestamp as epoch seconds or milliseconds
// depending on magnitude and returns it in UTC.
func parseEpoch(f float64) (time.Time, bool) {
	if f <= 0 {
		return time.Time{}, false
	}
	if f >= epochMillisCutoff {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Unix(int64(f), 0).UTC(), true
}

// resolveEndDate resolves a record's resolution time. Chain, first match
// wins: ISO end date, ISO close date, numeric end time, numeric close time,
// ISO resolved time.
func resolveEndDate(rec map[string]any) *time.Time {
	if s, ok := stringField(rec, "endDate", "end_date_iso", "endDateIso"); ok {
		if t, ok := parseISO(s); ok {
			return &t
		}
	}
	if s, ok := stringField(rec, "closeDate", "closedTime", "close_date"); ok {
		if t, ok := parseISO(s); ok {
			return &t
		}
	}
	if f, ok := floatField(rec, "endTime", "end_time", "endTimestamp"); ok {
		if t, ok := parseEpoch(f); ok {
			return &t
		}
	}
	if f, ok := floatField(rec, "closeTime", "close_time"); ok {
		if t, ok := parseEpoch(f); ok {
			return &t
		}
	}
	if s, ok := stringField(rec, "timeResolved", "time_resolved"); ok {
		if t, ok := parseISO(s); ok {
			return &t
		}
	}
	return nil
}

// resolveQuestion picks the display text for a record. Chain: question,
// title, name, slug, id (numeric ids are stringified).
func resolveQuestion(rec map[string]any) string {
	s, _ := stringField(rec, "question", "title", "name", "slug", "id")
	return s
}

// resolveResolutionState returns an explicit state string when present, else
// derives one from the boolean "resolved" flag, else nil.
func resolveResolutionState(rec map[string]any) *string {
	if s, ok := stringField(rec, "umaResolutionStatus", "resolutionState", "status"); ok {
		return &s
	}
	if v, ok := rec["resolved"]; ok {
		if b, ok := v.(bool); ok {
			state := "unresolved"
			if b {
				state = "resolved"
			}
			return &state
		}
	}
	return nil
}

// resolveVolume returns the first resolvable volume-like field.
func resolveVolume(rec map[string]any) *float64 {
	if f, ok := floatField(rec, "volumeNum", "volume", "volumeClob"); ok {
		return &f
	}
	return nil
}

// resolvePriceChange reads one of the oneDay/oneWeek/oneMonth change fields.
func resolvePriceChange(rec map[string]any, keys ...string) *float64 {
	if f, ok := floatField(rec, keys...); ok {
		return &f
	}
	return nil
}

// resolveStringList reads a parallel array field (e.g. outcomes). The feed
// sends either a JSON array or a JSON-encoded string of an array.
func resolveStringList(rec map[string]any, key string) []string {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	var items []any
	switch raw := v.(type) {
	case []any:
		items = raw
	case string:
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil
		}
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := asString(it); ok {
			out = append(out, s)
		}
	}
	return out
}

// resolveFloatList reads a parallel numeric array field (e.g. outcomePrices),
// accepting the same array-or-encoded-string duality and numeric strings
// inside the array. Unparseable entries are skipped.
func resolveFloatList(rec map[string]any, key string) []float64 {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	var items []any
	switch raw := v.(type) {
	case []any:
		items = raw
	case string:
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil
		}
	default:
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, it := range items {
		if f, ok := asFloat(it); ok {
			out = append(out, f)
		}
	}
	return out
}

// resolveTags merges tag/category collections from the given records (event
// level first, then market level), deduplicated by id with the first-seen
// label retained. Items may be bare strings, bare numbers, or objects.
func resolveTags(recs ...map[string]any) []domain.Tag {
	var tags []domain.Tag
	seen := make(map[string]bool)

	add := func(id, label string) {
		id = strings.TrimSpace(id)
		label = strings.TrimSpace(label)
		if id == "" || label == "" || seen[id] {
			return
		}
		seen[id] = true
		tags = append(tags, domain.Tag{ID: id, Label: label})
	}

	for _, rec := range recs {
		if rec == nil {
			continue
		}
		for _, key := range []string{"tags", "categories"} {
			items, ok := rec[key].([]any)
			if !ok {
				continue
			}
			for _, it := range items {
				switch v := it.(type) {
				case map[string]any:
					label, _ := stringField(v, "label", "name", "slug")
					id, _ := stringField(v, "id", "slug", "label")
					add(id, label)
				default:
					if s, ok := asString(v); ok {
						add(s, s)
					}
				}
			}
		}
	}
	return tags
}

// minPositive returns the smallest strictly positive value, or nil when no
// entry is positive.
func minPositive(prices []float64) *float64 {
	var best *float64
	for i := range prices {
		p := prices[i]
		if p <= 0 {
			continue
		}
		if best == nil || p < *best {
			best = &p
		}
	}
	return best
}

// hoursToClose returns the hours between now and end, rounded to two decimal
// places. Elapsed or degenerate intervals collapse to nil so downstream code
// cannot tell a past end date from a missing one.
func hoursToClose(end *time.Time, now time.Time) *float64 {
	if end == nil {
		return nil
	}
	h := end.Sub(now).Hours()
	h = math.Round(h*100) / 100
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return nil
	}
	return &h
}

// timeToEnd renders the countdown to end as a zero-padded "HH:MM:SS" string,
// truncated to whole seconds, under the same nil conditions as hoursToClose.
func timeToEnd(end *time.Time, now time.Time) *string {
	if end == nil {
		return nil
	}
	total := int64(end.Sub(now).Seconds())
	if total <= 0 {
		return nil
	}
	s := fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	return &s
}
