package service

import (
	"fmt"
	"sort"

	"datapulse/internal/core/trend"
	str "datapulse/internal/platform/strings"
	"datapulse/internal/services/api/insights/domain"
)

// topTagCount is how many tags a summary lists
const topTagCount = 3

// Compose builds a summary from counts already read
func Compose(total, recent int64, tags []domain.TagCount, trends []trend.Trend) domain.Summary {
	ranked := append([]domain.TagCount(nil), tags...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Tag < ranked[j].Tag
	})
	if len(ranked) > topTagCount {
		ranked = ranked[:topTagCount]
	}

	refs := make([]domain.TrendRef, 0, len(trends))
	for _, t := range trends {
		refs = append(refs, domain.TrendRef{Type: t.Type, Message: t.Message})
	}

	var insights []string
	switch recent {
	case 0:
		insights = append(insights, "No new submissions today")
	case 1:
		insights = append(insights, "You received 1 submission today")
	default:
		insights = append(insights, fmt.Sprintf("You received %d submissions today", recent))
	}
	if len(ranked) > 0 {
		insights = append(insights, "Most submissions were related to "+str.Humanize(ranked[0].Tag))
	}

	return domain.Summary{
		TotalSubmissions: total,
		NewSubmissions:   recent,
		TopTags:          ranked,
		Trends:           refs,
		Insights:         insights,
	}
}

// Suggestions turns recent tag counts into dashboard filter chips
func Suggestions(tags []domain.TagCount) []domain.Suggestion {
	out := []domain.Suggestion{
		{Type: domain.SuggestionTime, Label: "Last 24 hours", Filter: map[string]string{"time": "24h"}},
		{Type: domain.SuggestionTime, Label: "Last 7 days", Filter: map[string]string{"time": "7d"}},
	}
	seen := make(map[string]bool, len(tags))
	for _, tc := range tags {
		if seen[tc.Tag] {
			continue
		}
		seen[tc.Tag] = true
		out = append(out, domain.Suggestion{Type: domain.SuggestionTag, Label: str.Humanize(tc.Tag), Filter: map[string]string{"tag": tc.Tag}})
	}
	return out
}
