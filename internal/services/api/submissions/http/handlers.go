// Package http provides http transport for submissions
package http

import (
	"net"
	stdhttp "net/http"

	"datapulse/internal/modkit/httpkit"
	perr "datapulse/internal/platform/errors"
	"datapulse/internal/services/api/submissions/domain"
)

// RegisterIngest mounts the public submit endpoint
func RegisterIngest(r httpkit.Router, s domain.ServicePort, maxBody int64) {
	h := &handlers{svc: s, maxBody: maxBody}
	httpkit.Post(r, "/{apiKey}", h.submit)
}

// Register mounts the dashboard listing endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.GetQuery[domain.PageQuery](r, "/", h.listAll)
	httpkit.GetQuery[domain.PageQuery](r, "/{projectId}", h.listProject)
}

type handlers struct {
	svc     domain.ServicePort
	maxBody int64
}

// swagger:route POST /submit/{apiKey} Submissions submit
// @Summary Submit a form payload
// @Description Public endpoint for embedded forms; accepts a JSON object or an urlencoded form
// @Tags Submissions
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param apiKey path string true "Project API key"
// @Success 201 {object} domain.Receipt "stored"
// @Failure 400 {object} map[string]any "empty or malformed payload"
// @Failure 403 {object} map[string]any "unauthorized origin"
// @Failure 404 {object} map[string]any "invalid api key"
// @Failure 413 {object} map[string]any "payload too large"
// @Router /submit/{apiKey} [post]
func (h *handlers) submit(r *stdhttp.Request) (any, error) {
	payload, err := readPayload(r, h.maxBody)
	if err != nil {
		return nil, err
	}
	rec, err := h.svc.Ingest(r.Context(), domain.IngestRequest{
		APIKey:  httpkit.Param(r, "apiKey"),
		Payload: payload,
		Origin:  r.Header.Get("Origin"),
		Referer: r.Referer(),
		Meta: domain.Metadata{
			IP:        clientIP(r),
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
		},
	})
	if err != nil {
		return nil, err
	}
	return httpkit.BareCreated(rec), nil
}

// swagger:route GET /submissions Submissions listAll
// @Summary List submissions across the caller's projects
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "page size (default 50, max 200)"
// @Param offset query int false "rows to skip"
// @Success 200 {object} domain.Page "ok"
// @Router /submissions [get]
func (h *handlers) listAll(r *stdhttp.Request, q domain.PageQuery) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	page, err := h.svc.ForUser(r.Context(), uid, q)
	if err != nil {
		return nil, err
	}
	return httpkit.BareOK(page), nil
}

// swagger:route GET /submissions/{projectId} Submissions listProject
// @Summary List one project's submissions, newest first
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param projectId path int true "Project id"
// @Param limit query int false "page size (default 50, max 200)"
// @Param offset query int false "rows to skip"
// @Success 200 {object} domain.Page "ok"
// @Failure 404 {object} map[string]any "project not found or access denied"
// @Router /submissions/{projectId} [get]
func (h *handlers) listProject(r *stdhttp.Request, q domain.PageQuery) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	id, ok := httpkit.ParamInt64(r, "projectId")
	if !ok {
		return nil, perr.NotFoundf("Project not found or access denied")
	}
	page, err := h.svc.ForProject(r.Context(), uid, id, q)
	if err != nil {
		return nil, err
	}
	return httpkit.BareOK(page), nil
}

func clientIP(r *stdhttp.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
