package dbtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTodParse(t *testing.T) {
	tod, err := Parse("18:30")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := tod.Clock(); got != "18:30" {
		t.Fatalf("Clock = %q, want 18:30", got)
	}

	tod, err = Parse("07:05:09")
	if err != nil {
		t.Fatalf("Parse with seconds error: %v", err)
	}
	v, err := tod.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if v != "07:05:09" {
		t.Fatalf("Value = %v, want 07:05:09", v)
	}

	if _, err := Parse("25:99"); err == nil {
		t.Fatalf("expected error for impossible clock")
	}
}

func TestTodScan(t *testing.T) {
	var tod Tod
	if err := tod.Scan([]byte("09:15")); err != nil {
		t.Fatalf("Scan bytes error: %v", err)
	}
	if got := tod.Clock(); got != "09:15" {
		t.Fatalf("Clock after Scan = %q", got)
	}

	if err := tod.Scan(time.Date(2025, 6, 2, 14, 45, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan time error: %v", err)
	}
	if got := tod.Clock(); got != "14:45" {
		t.Fatalf("Clock after time Scan = %q", got)
	}

	if err := tod.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported Scan type")
	}
}

func TestTodZeroValue(t *testing.T) {
	var tod Tod
	v, err := tod.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if v != "00:00:00" {
		t.Fatalf("zero Value = %v, want 00:00:00", v)
	}
}

func TestTodJSONRoundTrip(t *testing.T) {
	tod, _ := Parse("18:30")
	raw, err := json.Marshal(tod)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(raw) != `"18:30:00"` {
		t.Fatalf("marshal = %s", raw)
	}

	var back Tod
	if err := json.Unmarshal([]byte(`"18:30"`), &back); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if got := back.Clock(); got != "18:30" {
		t.Fatalf("Clock after unmarshal = %q", got)
	}
}

func TestTodFrom(t *testing.T) {
	src := time.Date(2025, 6, 2, 18, 30, 45, 0, time.UTC)
	tod := From(src)
	if got := tod.Clock(); got != "18:30" {
		t.Fatalf("Clock = %q, want 18:30", got)
	}
	if tod.Year() != 0 {
		t.Fatalf("expected the date part pinned to the zero date, got year %d", tod.Year())
	}
}
