package parser

import (
	"testing"
	"time"
)

func TestParsePublishedTime(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"iso 8601", "2024-01-15T08:30:00Z", "2024-01-15"},
		{"iso date only", "2024-01-15", "2024-01-15"},
		{"rfc1123 feed date", "Mon, 15 Jan 2024 08:30:00 +0700", "2024-01-15"},
		{"indonesian month", "15 Januari 2024", "2024-01-15"},
		{"indonesian with weekday and time", "Senin, 15 Januari 2024 10:30 WIB", "2024-01-15"},
		{"indonesian december", "3 Desember 2023", "2023-12-03"},
		{"slash day month year", "15/01/2024", "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePublishedTime(tt.raw, fallback)
			if got.Format("2006-01-02") != tt.want {
				t.Fatalf("ParsePublishedTime(%q) = %v, want day %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePublishedTimeFallback(t *testing.T) {
	t.Parallel()

	fallback := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	for _, raw := range []string{"", "kemarin sore", "99/99/9999"} {
		if got := ParsePublishedTime(raw, fallback); !got.Equal(fallback) {
			t.Fatalf("ParsePublishedTime(%q) = %v, want fallback", raw, got)
		}
	}
}

func TestParsePublishedTimeIndonesianClock(t *testing.T) {
	t.Parallel()

	got := ParsePublishedTime("Senin, 15 Januari 2024 10:30 WIB", time.Now())
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Fatalf("expected 10:30 local time, got %v", got)
	}
}
