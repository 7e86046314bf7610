// Package httpkit provides handler and routing helpers over the platform http package
// modules use these so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	phttp "datapulse/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type (
	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// BareOK returns a 200 response written without the envelope
func BareOK(body any) Response { return phttp.Bare(http.StatusOK, body) }

// BareCreated returns a 201 response written without the envelope
func BareCreated(body any) Response { return phttp.Bare(http.StatusCreated, body) }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Get registers a no-body handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.NoBodyHandler(h))
}

// Post registers a handler that reads the body itself under POST
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.NoBodyHandler(h))
}

// GetQuery registers a GET handler whose query string binds into T
func GetQuery[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Get(path, phttp.QueryHandler(h))
}

// PostJSON registers a JSON body handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// Param returns a trimmed path parameter
func Param(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// ParamInt64 returns a positive integer path parameter; ok is false otherwise
func ParamInt64(r *http.Request, name string) (n int64, ok bool) {
	n, err := strconv.ParseInt(Param(r, name), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// MountAPI mounts a subrouter under /api/{version} with per-scope middleware
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is MountAPI with version v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
