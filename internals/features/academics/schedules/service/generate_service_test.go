package service

import (
	"testing"
	"time"

	"studioku_backend/internals/helpers/dbtime"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFirstOnOrAfter(t *testing.T) {
	monday := day(2025, 6, 2)

	if got := firstOnOrAfter(monday, 1); !got.Equal(monday) {
		t.Fatalf("monday anchor should match itself, got %v", got)
	}
	if got := firstOnOrAfter(monday, 3); !got.Equal(day(2025, 6, 4)) {
		t.Fatalf("first wednesday = %v, want 2025-06-04", got)
	}
	// Sunday is 0 and lies at the end of the anchor's week.
	if got := firstOnOrAfter(monday, 0); !got.Equal(day(2025, 6, 8)) {
		t.Fatalf("first sunday = %v, want 2025-06-08", got)
	}
}

func TestPlanSlotsWeekly(t *testing.T) {
	slots := planSlots(day(2025, 6, 2), day(2025, 6, 30), 3, PeriodicityWeekly)
	want := []time.Time{day(2025, 6, 4), day(2025, 6, 11), day(2025, 6, 18), day(2025, 6, 25)}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d: %v", len(slots), len(want), slots)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestPlanSlotsBiweekly(t *testing.T) {
	slots := planSlots(day(2025, 6, 2), day(2025, 6, 30), 3, PeriodicityBiweekly)
	want := []time.Time{day(2025, 6, 4), day(2025, 6, 18)}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d: %v", len(slots), len(want), slots)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestPlanSlotsMonthlyClampsDay(t *testing.T) {
	// 2025-01-31 is a Friday; later months keep the clamped day of
	// month even though the weekday drifts.
	slots := planSlots(day(2025, 1, 31), day(2025, 4, 1), 5, PeriodicityMonthly)
	want := []time.Time{day(2025, 1, 31), day(2025, 2, 28), day(2025, 3, 28)}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d: %v", len(slots), len(want), slots)
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}

func TestPlanSlotsQuarterWindow(t *testing.T) {
	// A full quarter of weekly Mondays: 2024-01-01 is itself a Monday,
	// the last one inside the horizon is 2024-03-25.
	anchor := day(2024, 1, 1)
	horizon := day(2024, 3, 31)
	slots := planSlots(anchor, horizon, 1, PeriodicityWeekly)

	if len(slots) != 13 {
		t.Fatalf("got %d slots, want 13: %v", len(slots), slots)
	}
	if !slots[0].Equal(anchor) {
		t.Errorf("first slot = %v, want the anchor itself", slots[0])
	}
	if !slots[len(slots)-1].Equal(day(2024, 3, 25)) {
		t.Errorf("last slot = %v, want 2024-03-25", slots[len(slots)-1])
	}
	for i, s := range slots {
		if s.After(horizon) {
			t.Errorf("slot %d = %v lies beyond the horizon", i, s)
		}
		if i > 0 && !slots[i-1].Before(s) {
			t.Errorf("slot %d = %v does not increase after %v", i, s, slots[i-1])
		}
	}
}

func TestPlanSlotsEmptyWindow(t *testing.T) {
	// Horizon falls before the first matching weekday.
	slots := planSlots(day(2025, 6, 2), day(2025, 6, 3), 3, PeriodicityWeekly)
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestPlanSlotsHorizonInclusive(t *testing.T) {
	slots := planSlots(day(2025, 6, 2), day(2025, 6, 4), 3, PeriodicityWeekly)
	if len(slots) != 1 || !slots[0].Equal(day(2025, 6, 4)) {
		t.Fatalf("expected the horizon day itself, got %v", slots)
	}
}

func TestNextDate(t *testing.T) {
	cur := day(2025, 6, 4)
	if got := nextDate(cur, PeriodicityWeekly); !got.Equal(day(2025, 6, 11)) {
		t.Fatalf("weekly = %v", got)
	}
	if got := nextDate(cur, PeriodicityBiweekly); !got.Equal(day(2025, 6, 18)) {
		t.Fatalf("biweekly = %v", got)
	}
	if got := nextDate(day(2025, 1, 31), PeriodicityMonthly); !got.Equal(day(2025, 2, 28)) {
		t.Fatalf("monthly clamp = %v", got)
	}
}

func TestCombineInLoc(t *testing.T) {
	loc := time.FixedZone("test", 5*3600)
	tod, err := dbtime.Parse("18:30")
	if err != nil {
		t.Fatalf("tod parse: %v", err)
	}
	got := combineInLoc(day(2025, 6, 4), tod, loc).UTC()
	want := time.Date(2025, 6, 4, 13, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("combineInLoc = %v, want %v", got, want)
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, 6, 4, 23, 59, 58, 0, time.UTC)
	if got := dateOnly(in); !got.Equal(day(2025, 6, 4)) {
		t.Fatalf("dateOnly = %v", got)
	}
}
