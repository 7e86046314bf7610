// Package origin decides whether a browser request may submit to a project
package origin

import (
	"net/url"
	"strings"
)

// Allowed reports whether the Origin or Referer header values satisfy allow
// An empty allow list accepts everything; with a non empty list at least one
// entry must match one of the headers, so a request carrying neither is refused
func Allowed(allow []string, origin, referer string) bool {
	if len(allow) == 0 {
		return true
	}
	if origin == "" && referer == "" {
		return false
	}
	for _, entry := range allow {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if matches(entry, origin) || matches(entry, referer) {
			return true
		}
	}
	return false
}

// matches compares hostnames when both sides parse, else falls back to containment
func matches(entry, header string) bool {
	if header == "" {
		return false
	}
	want, ok := hostOf(entry)
	if !ok {
		return strings.Contains(header, entry)
	}
	got, ok := hostOf(header)
	if !ok {
		return strings.Contains(header, entry)
	}
	return got == want
}

// hostOf extracts a lower cased hostname; bare hosts are read as //host
func hostOf(s string) (string, bool) {
	if !strings.Contains(s, "://") {
		s = "//" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	h := strings.ToLower(u.Hostname())
	return h, h != ""
}
