package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init(Config{}) })

	tt := []struct {
		name    string
		cfg     Config
		logFunc func() *zerolog.Event
		wantLog bool
	}{
		{
			name:    "debug suppressed by default",
			logFunc: Debug,
			wantLog: false,
		},
		{
			name:    "debug enabled by flag",
			cfg:     Config{Debug: true},
			logFunc: Debug,
			wantLog: true,
		},
		{
			name:    "debug enabled by level",
			cfg:     Config{Level: "DEBUG"},
			logFunc: Debug,
			wantLog: true,
		},
		{
			name:    "info at default level",
			logFunc: Info,
			wantLog: true,
		},
		{
			name:    "unknown level falls back to info",
			cfg:     Config{Level: "chatty"},
			logFunc: Info,
			wantLog: true,
		},
		{
			name:    "warn hidden at error level",
			cfg:     Config{Level: "error"},
			logFunc: Warn,
			wantLog: false,
		},
		{
			name:    "error at warn level",
			cfg:     Config{Level: "warn"},
			logFunc: Error,
			wantLog: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := tc.cfg
			cfg.Output = &buf
			Init(cfg)

			tc.logFunc().Msg("hello")

			if got := strings.Contains(buf.String(), "hello"); got != tc.wantLog {
				t.Fatalf("logged = %v, want %v (output %q)", got, tc.wantLog, buf.String())
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	t.Cleanup(func() { Init(Config{}) })

	var buf bytes.Buffer
	Init(Config{Format: "json", Output: &buf})

	Info().Str("url", "https://example.com").Msg("call")

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"url":"https://example.com"`) {
		t.Errorf("expected url field in %q", out)
	}
}
