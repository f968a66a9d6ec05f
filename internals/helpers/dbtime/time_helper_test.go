package dbtime

import (
	"testing"
	"time"
)

// pinStudioZone fixes the studio offset so tests do not depend on the
// environment the suite runs in.
func pinStudioZone(hours int) {
	studioOnce.Do(func() {})
	studioLoc = time.FixedZone("test", hours*3600)
}

func TestParseDateTime(t *testing.T) {
	pinStudioZone(5)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339 keeps zone", "2025-03-10T18:30:00Z", time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)},
		{"naT is studio clock", "2025-03-10T18:30", time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC)},
		{"naive with seconds", "2025-03-10 18:30:45", time.Date(2025, 3, 10, 13, 30, 45, 0, time.UTC)},
		{"naive without seconds", "2025-03-10 18:30", time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC)},
		{"dotted", "10.03.2025 18:30", time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input)
			if err != nil {
				t.Fatalf("ParseDateTime(%q) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDateTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("ParseDateTime(%q) not UTC: %v", tt.input, got.Location())
			}
		})
	}

	if _, err := ParseDateTime("yesterday evening"); err == nil {
		t.Fatalf("expected error for unparseable input")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}
	if _, err := ParseDate("10.03.2025"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestFormatClock(t *testing.T) {
	pinStudioZone(5)

	utc := time.Date(2025, 3, 10, 13, 30, 0, 0, time.UTC)
	if got := FormatClock(utc); got != "18:30" {
		t.Fatalf("FormatClock = %q, want 18:30", got)
	}
	if got := FormatDateTime(utc); got != "10.03.2025 в 18:30" {
		t.Fatalf("FormatDateTime = %q", got)
	}
	if got := FormatDate(utc); got != "2025-03-10" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", monday, monday},
		{"midweek", time.Date(2025, 6, 4, 15, 45, 0, 0, time.UTC), monday},
		{"sunday belongs to prior monday", time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC), monday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Fatalf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{
			"jan 31 clamps to feb 28",
			time.Date(2025, 1, 31, 10, 30, 0, 0, time.UTC), 1,
			time.Date(2025, 2, 28, 10, 30, 0, 0, time.UTC),
		},
		{
			"leap february keeps the 29th",
			time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1,
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"december rolls into next year",
			time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC), 1,
			time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			"negative step clamps too",
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), -1,
			time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"plain middle of month",
			time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC), 3,
			time.Date(2025, 8, 10, 18, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.in, tt.n); !got.Equal(tt.want) {
				t.Fatalf("AddMonths(%v, %d) = %v, want %v", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
