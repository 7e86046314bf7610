package domain

const (
	// DefaultLimit is the page size when none is asked for
	DefaultLimit = 50
	// MaxLimit caps the page size
	MaxLimit = 200
)

// IngestRequest is a decoded public submit
type IngestRequest struct {
	APIKey  string
	Payload map[string]any
	Origin  string
	Referer string
	Meta    Metadata
}

// Receipt acknowledges a stored submission
type Receipt struct {
	Message string `json:"message" example:"Submission received"`
	ID      string `json:"id" example:"9b2f4c1e-8a7d-4b55-9a51-2f9f5d0c7e11"`
}

// PageQuery selects a window of the newest first listing
type PageQuery struct {
	Limit  int `query:"limit" validate:"min=0"`
	Offset int `query:"offset" validate:"min=0"`
}

// Normalize applies the default and the cap to Limit
func (q PageQuery) Normalize() PageQuery {
	switch {
	case q.Limit == 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Page is one window of submissions plus the total behind it
type Page struct {
	Data   []Submission `json:"data"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}
