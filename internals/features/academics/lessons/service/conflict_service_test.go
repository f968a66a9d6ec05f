package service

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 6, 2, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		s1     time.Time
		d1     int
		s2     time.Time
		d2     int
		expect bool
	}{
		{"partial overlap", at(10, 0), 60, at(10, 30), 60, true},
		{"contained interval", at(10, 0), 120, at(10, 30), 30, true},
		{"same start", at(10, 0), 60, at(10, 0), 90, true},
		{"back to back do not collide", at(10, 0), 60, at(11, 0), 60, false},
		{"disjoint", at(10, 0), 60, at(12, 0), 60, false},
		{"order does not matter", at(10, 30), 60, at(10, 0), 60, true},
		{"zero duration defaults to an hour", at(10, 0), 0, at(10, 45), 30, true},
		{"negative duration defaults too", at(10, 0), -5, at(11, 0), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.d1, tt.s2, tt.d2); got != tt.expect {
				t.Fatalf("Overlaps = %v, want %v", got, tt.expect)
			}
		})
	}
}
