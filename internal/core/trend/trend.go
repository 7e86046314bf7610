// Package trend derives volume and keyword signals from submission counts
package trend

import (
	"fmt"
	"math"
	"sort"
)

// Trend types
const (
	TypeSpike        = "spike"
	TypeDrop         = "drop"
	TypeInactivity   = "inactivity"
	TypeKeywordTrend = "keyword_trend"
)

// Severities
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Trend is one detected signal
type Trend struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Severity string         `json:"severity"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// KeywordMin is the number of recent submissions a tag needs before it trends
const KeywordMin = 3

// Volume compares the last 24h against the 24h before it
// Thresholds are strict: exactly 1.4x is not a spike and exactly 0.6x is not a drop
func Volume(today, yesterday int64) []Trend {
	var out []Trend
	if yesterday <= 0 {
		return out
	}
	if today*10 > yesterday*14 {
		pct := percent(today-yesterday, yesterday)
		sev := SeverityMedium
		if pct > 100 {
			sev = SeverityHigh
		}
		out = append(out, Trend{
			Type:     TypeSpike,
			Message:  fmt.Sprintf("Submission volume increased %d%% compared to yesterday", pct),
			Severity: sev,
			Metadata: map[string]any{"todayCount": today, "yesterdayCount": yesterday, "percentIncrease": pct},
		})
	}
	if today*10 < yesterday*6 {
		pct := percent(yesterday-today, yesterday)
		sev := SeverityLow
		if pct > 60 {
			sev = SeverityMedium
		}
		out = append(out, Trend{
			Type:     TypeDrop,
			Message:  fmt.Sprintf("Submission volume decreased %d%% compared to yesterday", pct),
			Severity: sev,
			Metadata: map[string]any{"todayCount": today, "yesterdayCount": yesterday, "percentDecrease": pct},
		})
	}
	if today == 0 {
		out = append(out, Trend{
			Type:     TypeInactivity,
			Message:  "No submissions received in the last 24 hours",
			Severity: SeverityMedium,
		})
	}
	return out
}

// Keywords reports tags attached to at least KeywordMin recent submissions
// Output is ordered by count descending, then tag name
func Keywords(counts map[string]int64) []Trend {
	tags := make([]string, 0, len(counts))
	for tag, n := range counts {
		if n >= KeywordMin {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	out := make([]Trend, 0, len(tags))
	for _, tag := range tags {
		n := counts[tag]
		sev := SeverityMedium
		if n >= 5 {
			sev = SeverityHigh
		}
		out = append(out, Trend{
			Type:     TypeKeywordTrend,
			Message:  fmt.Sprintf("%q appeared in %d recent submissions", tag, n),
			Severity: sev,
			Metadata: map[string]any{"tag": tag, "count": n},
		})
	}
	return out
}

// percent rounds num/den*100 half up
func percent(num, den int64) int64 {
	return int64(math.Floor(float64(num)*100/float64(den) + 0.5))
}
