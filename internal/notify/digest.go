package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// digestOrder pins category ordering in rendered digests so repeated runs
// produce comparable messages.
var digestOrder = map[string]int{
	"oneToFive":       0,
	"fiveToTen":       1,
	"tenToFifteen":    2,
	"fifteenToTwenty": 3,
	"twentyToFifty":   4,
	"aboveFifty":      5,
	"tenToTwenty":     6,
	"twentyToThirty":  7,
	"aboveThirty":     8,
}

// DigestTitle renders the message title for one variant's digest.
func DigestTitle(variant domain.Variant) string {
	return fmt.Sprintf("marketscout %s digest", variant)
}

// FormatDigest renders a screener payload as a plain-text digest: one
// section per category, one line per candidate with score, price, move, and
// countdown. Empty payloads render a short no-results notice.
func FormatDigest(payload domain.ScreenerPayload) string {
	if len(payload.Categories) == 0 {
		return fmt.Sprintf("no %s candidates at %s",
			payload.Variant, payload.GeneratedAt.Format("15:04:05 UTC"))
	}

	keys := make([]string, 0, len(payload.Categories))
	for k := range payload.Categories {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return digestOrder[keys[i]] < digestOrder[keys[j]]
	})

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s:\n", key)
		for _, c := range payload.Categories[key] {
			b.WriteString("  ")
			b.WriteString(candidateLine(c))
			b.WriteByte('\n')
		}
	}
	fmt.Fprintf(&b, "generated at %s", payload.GeneratedAt.Format("15:04:05 UTC"))
	return b.String()
}

// candidateLine renders one candidate: "[87] Question (3c, -22% 1d, closes 04:12:00)".
func candidateLine(c domain.Candidate) string {
	var parts []string
	if c.BestPrice != nil {
		parts = append(parts, fmt.Sprintf("%.0fc", *c.BestPrice*100))
	}
	if c.OneDayPriceChange != nil {
		parts = append(parts, fmt.Sprintf("%+.0f%% 1d", *c.OneDayPriceChange*100))
	}
	if c.TimeToEnd != nil {
		parts = append(parts, "closes "+*c.TimeToEnd)
	}

	score := 0
	if c.Score != nil {
		score = *c.Score
	}
	question := c.Question
	if question == "" {
		question = "(untitled)"
	}
	if len(parts) == 0 {
		return fmt.Sprintf("[%d] %s", score, question)
	}
	return fmt.Sprintf("[%d] %s (%s)", score, question, strings.Join(parts, ", "))
}
