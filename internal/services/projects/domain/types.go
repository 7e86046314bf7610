// Package domain defines the project and owner records the core reads
package domain

import "context"

// Project is the tenant a submission belongs to
type Project struct {
	ID             int64    `json:"id"`
	OwnerID        string   `json:"userId"`
	Name           string   `json:"name"`
	APIKey         string   `json:"-"`
	AllowedOrigins []string `json:"allowedOrigins"`
	WebhookURL     string   `json:"webhookUrl,omitempty"`
}

// Owner is the user a project belongs to, with notification preferences
type Owner struct {
	ID                     string `json:"id"`
	Email                  string `json:"email"`
	Name                   string `json:"name,omitempty"`
	Organization           string `json:"organization,omitempty"`
	NotifyNewSubmissions   bool   `json:"notifyNewSubmissions"`
	NotifyMonthlyAnalytics bool   `json:"notifyMonthlyAnalytics"`
	UnsubscribeAll         bool   `json:"unsubscribeAll"`
}

// WantsSubmissionMail reports whether new submission mail should go out
func (o Owner) WantsSubmissionMail() bool {
	return o.Email != "" && o.NotifyNewSubmissions && !o.UnsubscribeAll
}

// LookupPort resolves projects for ingest, dashboards and jobs
type LookupPort interface {
	// ByAPIKey resolves the project for a public submit; unknown keys are not found
	ByAPIKey(ctx context.Context, apiKey string) (Project, error)
	// Owned returns the project only when userID owns it
	Owned(ctx context.Context, userID string, projectID int64) (Project, error)
	// ListOwned returns every project userID owns
	ListOwned(ctx context.Context, userID string) ([]Project, error)
	// Owner returns the owner of a project
	Owner(ctx context.Context, projectID int64) (Owner, error)
	// All returns every project id, for batch jobs
	All(ctx context.Context) ([]int64, error)
	// Forget drops a cached api key resolution
	Forget(apiKey string)
}
