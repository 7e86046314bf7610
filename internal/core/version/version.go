// Package version reports build metadata for the running binary
package version

import "runtime/debug"

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
}

// Set with -ldflags "-X 'datapulse/internal/core/version.version=v0.1.0' -X ...commit=abcd -X ...date=2026-01-02"
var (
	service = "datapulse-api"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information, falling back to VCS stamps when ldflags were not set
func Info() BuildInfo {
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}
	bi.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		}
	}
	return bi
}
