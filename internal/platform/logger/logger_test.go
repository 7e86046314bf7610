package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "datapulse/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"trace":       "trace",
		"info":        "info",
		"WARNING":     "warn",
		"error":       "error",
		"":            "debug",
		"  unknown  ": "debug",
	}
	for in, want := range cases {
		if got := strings.ToLower(parseLevel(in).String()); got != want {
			t.Fatalf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInitNamedAndContextFields(t *testing.T) {
	var buf bytes.Buffer

	Init(Options{
		Level:        "info",
		Format:       "console",
		Service:      "datapulse-api",
		Writer:       &buf,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	// resample to N=1 so every line is written
	nv := Named("intel").Sample(&zerolog.BasicSampler{N: 1})
	np := &nv
	np.Info().Msg("named-msg")

	ctx := WithProject(WithRequest(context.Background(), "req-123"), "proj-9")
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	cp := &cv
	cp.Info().Msg("ctx-msg")

	out := buf.String()
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "intel")
	kit.MustContain(t, out, "ctx-msg")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "project_id=")
	kit.MustContain(t, out, "proj-9")
	kit.MustContain(t, out, "datapulse-api")
	kit.MustContain(t, out, "build=")
}

func TestEmptyValuesLeaveContextUntouched(t *testing.T) {
	base := context.Background()
	if WithRequest(base, "") != base || WithProject(base, "") != base {
		t.Fatalf("empty ids should not wrap the context")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" {
		t.Fatalf("level/format = %q/%q", opt.Level, opt.Format)
	}
	if opt.Service != "datapulse" {
		t.Fatalf("service default = %q", opt.Service)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("caller/sample mismatch: %+v", opt)
	}
}
