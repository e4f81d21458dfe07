package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")
	logger.Error("error line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Fatalf("records below warn must be dropped, got:\n%s", out)
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Fatalf("warn and error must pass the filter, got:\n%s", out)
	}
}

func TestLevelFromString(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"error", "ERROR"},
		{"WARN", "WARN"},
		{"warning", "WARN"},
		{" info ", "INFO"},
		{"", "DEBUG"},
		{"trace", "DEBUG"},
	}

	for _, tc := range cases {
		if got := levelFromString(tc.value).String(); got != tc.want {
			t.Errorf("levelFromString(%q) = %s, want %s", tc.value, got, tc.want)
		}
	}
}
