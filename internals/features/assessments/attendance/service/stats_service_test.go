package service

import (
	"testing"

	"studioku_backend/internals/features/assessments/attendance/model"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name   string
		points int
		marked int
		want   float64
	}{
		{"nothing marked", 0, 0, 0},
		{"full score", 2, 1, 100},
		{"half score", 1, 1, 50},
		{"rounded to one decimal", 5, 3, 83.3},
		{"seven of eight", 7, 4, 87.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.points, tt.marked); got != tt.want {
				t.Fatalf("Percentage(%d, %d) = %v, want %v", tt.points, tt.marked, got, tt.want)
			}
		})
	}
}

func TestCapTrial(t *testing.T) {
	points, marked := CapTrial(6, 3)
	if points != 2 || marked != 1 {
		t.Fatalf("CapTrial(6, 3) = (%d, %d), want (2, 1)", points, marked)
	}
	points, marked = CapTrial(1, 1)
	if points != 1 || marked != 1 {
		t.Fatalf("CapTrial(1, 1) = (%d, %d), want (1, 1)", points, marked)
	}
	points, marked = CapTrial(0, 0)
	if points != 0 || marked != 0 {
		t.Fatalf("CapTrial(0, 0) = (%d, %d), want (0, 0)", points, marked)
	}
}

func TestFold(t *testing.T) {
	statuses := []string{
		model.StatusPresent,
		model.StatusLate,
		model.StatusAbsent,
		model.StatusExcused,
		"X", // unknown codes are ignored
	}
	st := Fold(statuses, 6, false)

	if st.Present != 1 || st.Late != 1 || st.Absent != 1 || st.Excused != 1 {
		t.Fatalf("status counters wrong: %+v", st)
	}
	if st.Marked != 4 {
		t.Fatalf("Marked = %d, want 4", st.Marked)
	}
	if st.Points != 5 {
		t.Fatalf("Points = %d, want 5", st.Points)
	}
	if st.Attended != 2 {
		t.Fatalf("Attended = %d, want 2", st.Attended)
	}
	if st.TotalLessons != 6 || st.MaxPoints != 12 {
		t.Fatalf("totals wrong: %+v", st)
	}
	if st.Percentage != 62.5 {
		t.Fatalf("Percentage = %v, want 62.5", st.Percentage)
	}
}

func TestFoldTrialCap(t *testing.T) {
	st := Fold([]string{model.StatusPresent, model.StatusPresent}, 10, true)
	if st.Marked != 1 || st.Points != 2 {
		t.Fatalf("trial stats not capped: %+v", st)
	}
	if st.Percentage != 100 {
		t.Fatalf("Percentage = %v, want 100", st.Percentage)
	}
	// Raw status counters stay untouched, only points and marked shrink.
	if st.Present != 2 {
		t.Fatalf("Present = %d, want 2", st.Present)
	}
}

func TestStatusTables(t *testing.T) {
	points := map[string]int{
		model.StatusPresent: 2,
		model.StatusExcused: 2,
		model.StatusLate:    1,
		model.StatusAbsent:  0,
	}
	for code, want := range points {
		if got := model.StatusPoints(code); got != want {
			t.Fatalf("StatusPoints(%q) = %d, want %d", code, got, want)
		}
		if !model.ValidStatus(code) {
			t.Fatalf("ValidStatus(%q) = false", code)
		}
	}
	if model.ValidStatus("Z") {
		t.Fatalf("expected Z to be invalid")
	}
	if !model.StatusAttended(model.StatusPresent) || model.StatusAttended(model.StatusLate) {
		t.Fatalf("StatusAttended mapping wrong")
	}
}
