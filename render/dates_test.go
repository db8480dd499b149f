package render

import (
	"testing"
	"time"
)

func TestTranslateDatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"YYYY.MM.DD", "2006.01.02"},
		{"YYYY/MM/DD hh:mm", "2006/01/02 15:04"},
		{"YYYY-MM-DD HH:mm:ss", "2006-01-02 15:04:05"},
		{"DD/MM/YY", "02/01/06"},
		{"", "2006.01.02"},
	}
	for _, tt := range tests {
		if got := TranslateDatePattern(tt.pattern); got != tt.want {
			t.Fatalf("TranslateDatePattern(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestFormatDateValue(t *testing.T) {
	stamp := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   any
		pattern string
		want    string
	}{
		{"time value", stamp, "YYYY.MM.DD", "2026.03.15"},
		{"pointer value", &stamp, "YYYY/MM/DD", "2026/03/15"},
		{"rfc3339 string", "2026-03-15T18:30:00Z", "YYYY.MM.DD hh:mm", "2026.03.15 18:30"},
		{"date-only string", "2026-03-15", "DD/MM/YYYY", "15/03/2026"},
		{"epoch seconds", stamp.Unix(), "YYYY.MM.DD", "2026.03.15"},
		{"unparseable", "not a date", "YYYY.MM.DD", ""},
		{"nil pointer", (*time.Time)(nil), "YYYY.MM.DD", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDateValue(tt.value, tt.pattern); got != tt.want {
				t.Fatalf("formatDateValue = %q, want %q", got, tt.want)
			}
		})
	}
}
