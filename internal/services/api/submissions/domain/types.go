// Package domain defines submission ingest and the dashboard listing shapes
package domain

import (
	"encoding/json"
	"time"
)

// Metadata is what ingest records about the sender
type Metadata struct {
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
	Referer   string `json:"referer"`
}

// Tag is a classification attached by the intelligence pass
type Tag struct {
	Tag        string  `json:"tag"`
	Confidence float64 `json:"confidence"`
}

// Insight is an actionable observation attached by the intelligence pass
type Insight struct {
	Type     string          `json:"type"`
	Message  string          `json:"message"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Submission is one stored payload with whatever analysis has landed so far
type Submission struct {
	ID          string          `json:"id"`
	ProjectID   int64           `json:"projectId"`
	ProjectName string          `json:"projectName,omitempty"`
	Data        json.RawMessage `json:"data"`
	Metadata    Metadata        `json:"metadata"`
	CreatedAt   time.Time       `json:"createdAt"`
	Processed   bool            `json:"processed"`
	IsDuplicate bool            `json:"isDuplicate"`
	DuplicateOf *string         `json:"duplicateOf"`
	Tags        []Tag           `json:"tags"`
	Insights    []Insight       `json:"insights"`
}
