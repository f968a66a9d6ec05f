// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Storage is always UTC; user-facing strings are rendered in the studio's
// wall-clock zone, a fixed offset configured via STUDIO_UTC_OFFSET_HOURS.
var (
	studioOnce sync.Once
	studioLoc  *time.Location
)

func StudioLocation() *time.Location {
	studioOnce.Do(func() {
		hours := 5
		if v := os.Getenv("STUDIO_UTC_OFFSET_HOURS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				hours = n
			}
		}
		studioLoc = time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
	})
	return studioLoc
}

func ToStudio(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(StudioLocation())
}

func ToStudioPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToStudio(*t)
	return &v
}

func NowInStudio() time.Time {
	return time.Now().In(StudioLocation())
}

/* ===============================
   Display formatting
=================================*/

// FormatClock renders the studio-local wall clock, "15:04".
func FormatClock(t time.Time) string {
	return ToStudio(t).Format("15:04")
}

// FormatDateTime renders "02.01.2006 в 15:04" studio-local.
func FormatDateTime(t time.Time) string {
	return ToStudio(t).Format("02.01.2006 в 15:04")
}

// FormatDate renders the plain date, "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

/* ===============================
   Parsing
=================================*/

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
	"01/02/2006 15:04",
}

// ParseDateTime accepts the datetime shapes clients actually send.
// Naive strings are studio wall-clock; the result is UTC.
func ParseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, StudioLocation()); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("dbtime: unsupported datetime %q", s)
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

/* ===============================
   Calendar math
=================================*/

// WeekStart returns Monday 00:00 UTC of t's week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// AddMonths advances by whole calendar months, clamping the day of month
// (Jan 31 + 1 = Feb 28/29) so December rolls into January of the next year.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	h, min, s := t.Clock()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	last := daysIn(first.Year(), first.Month())
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, h, min, s, 0, t.Location())
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
