package constants

// Weekday numbering is Sunday=0..Saturday=6 everywhere: stored
// day_of_week, API payloads, and Go's time.Weekday all agree.
var DayNamesShort = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// DayNameShort returns "" for out-of-range values.
func DayNameShort(dow int) string {
	if dow < 0 || dow > 6 {
		return ""
	}
	return DayNamesShort[dow]
}
