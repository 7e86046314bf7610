package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	stdhttp "net/http"
	"net/url"
	"strconv"

	perr "datapulse/internal/platform/errors"
	"datapulse/internal/platform/logger"
)

// readPayload decodes a submit body into an open JSON object
// Urlencoded forms become string values, repeated keys become string arrays
func readPayload(r *stdhttp.Request, maxBytes int64) (map[string]any, error) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Error().Err(err).Msg("failed to close request body")
		}
	}()

	// one extra byte tells an oversized body apart from an exact fit
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, perr.JSONErrf("read body: %v", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, perr.TooLargef("Request body too large. Max %s allowed.", sizeLabel(maxBytes))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/x-www-form-urlencoded" {
		return formPayload(raw)
	}
	return jsonPayload(raw)
}

func jsonPayload(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return nil, perr.JSONErrf("unexpected trailing data")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, perr.JSONErrf("payload must be a JSON object")
	}
	return obj, nil
}

func formPayload(raw []byte) (map[string]any, error) {
	vals, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, perr.Validationf("invalid form body: %v", err)
	}
	out := make(map[string]any, len(vals))
	for k, vs := range vals {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		arr := make([]any, len(vs))
		for i, v := range vs {
			arr[i] = v
		}
		out[k] = arr
	}
	return out, nil
}

// sizeLabel renders a byte cap the way limits are quoted to clients (50KB, 1MB)
func sizeLabel(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return strconv.FormatInt(n>>20, 10) + "MB"
	case n >= 1000 && n%1000 == 0:
		return strconv.FormatInt(n/1000, 10) + "KB"
	case n >= 1<<10 && n%(1<<10) == 0:
		return strconv.FormatInt(n>>10, 10) + "KB"
	default:
		return strconv.FormatInt(n, 10) + " bytes"
	}
}
