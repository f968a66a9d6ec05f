package dto

// AddScheduleRequest is one weekly slot plus its end time; the end is
// validated against the start but the stored pattern keeps only the
// start (lesson length comes from the group).
type AddScheduleRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// PatternItem mirrors one group_schedules row in replace requests.
type PatternItem struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
}

type ReplaceSchedulesRequest struct {
	Schedules []PatternItem `json:"schedules" validate:"dive"`
}
