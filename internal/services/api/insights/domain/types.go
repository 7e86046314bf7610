// Package domain defines the dashboard summary, trend and suggestion shapes
package domain

import "datapulse/internal/core/trend"

// PeriodDaily is the only period the core computes
const PeriodDaily = "daily"

// TagCount is how many recent submissions carry a tag
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TrendRef is the short form of a trend kept inside a summary
type TrendRef struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Summary is the per project daily digest
type Summary struct {
	TotalSubmissions int64      `json:"totalSubmissions"`
	NewSubmissions   int64      `json:"newSubmissions"`
	TopTags          []TagCount `json:"topTags"`
	Trends           []TrendRef `json:"trends"`
	Insights         []string   `json:"insights"`
}

// Suggestion kinds
const (
	SuggestionTime = "time"
	SuggestionTag  = "tag"
)

// Suggestion is a quick filter chip for the dashboard
type Suggestion struct {
	Type   string            `json:"type"`
	Label  string            `json:"label"`
	Filter map[string]string `json:"filter"`
}

// SummaryResponse wraps a summary for the wire
type SummaryResponse struct {
	Summary Summary `json:"summary"`
}

// TrendsResponse wraps trends for the wire
type TrendsResponse struct {
	Trends []trend.Trend `json:"trends"`
}

// SuggestionsResponse wraps suggestions for the wire
type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}
