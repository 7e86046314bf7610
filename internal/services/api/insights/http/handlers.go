// Package http provides http transport for insights
package http

import (
	stdhttp "net/http"

	"datapulse/internal/modkit/httpkit"
	perr "datapulse/internal/platform/errors"
	"datapulse/internal/services/api/insights/domain"
)

// Register mounts insights endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/summary/{projectId}", h.summary)
	httpkit.Get(r, "/trends/{projectId}", h.trends)
	httpkit.Get(r, "/suggestions/{projectId}", h.suggestions)
}

type handlers struct{ svc domain.ServicePort }

// target resolves the caller and the project path parameter
func target(r *stdhttp.Request) (string, int64, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return "", 0, err
	}
	id, ok := httpkit.ParamInt64(r, "projectId")
	if !ok {
		return "", 0, perr.NotFoundf("Project not found or access denied")
	}
	return uid, id, nil
}

// swagger:route GET /insights/summary/{projectId} Insights insightsSummary
// @Summary Daily summary for a project
// @Tags Insights
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project id"
// @Success 200 {object} domain.SummaryResponse "ok"
// @Failure 404 {object} map[string]any "project not found or access denied"
// @Router /insights/summary/{projectId} [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	uid, id, err := target(r)
	if err != nil {
		return nil, err
	}
	sum, err := h.svc.Summary(r.Context(), uid, id)
	if err != nil {
		return nil, err
	}
	return httpkit.BareOK(domain.SummaryResponse{Summary: sum}), nil
}

// swagger:route GET /insights/trends/{projectId} Insights insightsTrends
// @Summary Volume and keyword trends over the last two days
// @Tags Insights
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project id"
// @Success 200 {object} domain.TrendsResponse "ok"
// @Router /insights/trends/{projectId} [get]
func (h *handlers) trends(r *stdhttp.Request) (any, error) {
	uid, id, err := target(r)
	if err != nil {
		return nil, err
	}
	ts, err := h.svc.Trends(r.Context(), uid, id)
	if err != nil {
		return nil, err
	}
	return httpkit.BareOK(domain.TrendsResponse{Trends: ts}), nil
}

// swagger:route GET /insights/suggestions/{projectId} Insights insightsSuggestions
// @Summary Quick filter chips
// @Tags Insights
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project id"
// @Success 200 {object} domain.SuggestionsResponse "ok"
// @Router /insights/suggestions/{projectId} [get]
func (h *handlers) suggestions(r *stdhttp.Request) (any, error) {
	uid, id, err := target(r)
	if err != nil {
		return nil, err
	}
	ss, err := h.svc.Suggestions(r.Context(), uid, id)
	if err != nil {
		return nil, err
	}
	return httpkit.BareOK(domain.SuggestionsResponse{Suggestions: ss}), nil
}
