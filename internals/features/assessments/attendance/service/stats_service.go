package service

import (
	"math"

	"studioku_backend/internals/features/assessments/attendance/model"
)

// GroupStats aggregates one student's attendance within one group.
type GroupStats struct {
	TotalLessons int     `json:"total"`
	Marked       int     `json:"marked"`
	Present      int     `json:"present"`
	Excused      int     `json:"excused"`
	Late         int     `json:"late"`
	Absent       int     `json:"missed"`
	Attended     int     `json:"attended"`
	Points       int     `json:"points"`
	MaxPoints    int     `json:"max_points"`
	Percentage   float64 `json:"percentage"`
}

// Percentage is points over the 2-points-per-marked-lesson maximum,
// as a percent rounded to one decimal. Zero marked lessons is plain 0.
func Percentage(points, marked int) float64 {
	if marked <= 0 {
		return 0
	}
	pct := float64(points) / float64(marked*2) * 100
	return math.Round(pct*10) / 10
}

// CapTrial limits a trial student's stats to a single marked lesson so
// one visit never reads as a full attendance history.
func CapTrial(points, marked int) (int, int) {
	if marked > 1 {
		marked = 1
	}
	if points > marked*2 {
		points = marked * 2
	}
	return points, marked
}

// Fold builds stats from one student's marked statuses. Unknown codes
// are ignored rather than counted.
func Fold(statuses []string, totalLessons int, isTrial bool) GroupStats {
	st := GroupStats{TotalLessons: totalLessons}
	for _, s := range statuses {
		switch s {
		case model.StatusPresent:
			st.Present++
		case model.StatusExcused:
			st.Excused++
		case model.StatusLate:
			st.Late++
		case model.StatusAbsent:
			st.Absent++
		default:
			continue
		}
		st.Marked++
		st.Points += model.StatusPoints(s)
		if model.StatusAttended(s) {
			st.Attended++
		}
	}
	if isTrial {
		st.Points, st.Marked = CapTrial(st.Points, st.Marked)
	}
	st.MaxPoints = st.TotalLessons * 2
	st.Percentage = Percentage(st.Points, st.Marked)
	return st
}
