package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		verbose   bool
		wantDebug bool
	}{
		{false, false},
		{true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := NewLogger(&buf, tt.verbose)
		l.Debug("detail")
		l.Info("stage done", "stage", "solve-eigen")

		out := buf.String()
		if got := strings.Contains(out, "detail"); got != tt.wantDebug {
			t.Errorf("verbose=%t: debug written = %t", tt.verbose, got)
		}
		if !strings.Contains(out, "stage=solve-eigen") {
			t.Errorf("verbose=%t: missing info record in %q", tt.verbose, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithLevel(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&buf, true)
	l := WithLevel(base, slog.LevelWarn).With("case", 2)

	l.Info("hidden")
	l.Warn("load case skipped")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record passed a warn handler")
	}
	if !strings.Contains(out, "load case skipped") || !strings.Contains(out, "case=2") {
		t.Errorf("unexpected output %q", out)
	}
}
