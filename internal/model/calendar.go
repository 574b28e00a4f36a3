package model

// SchoolHoliday is a closed date interval during which no lessons are generated.
// Dates are ISO strings (YYYY-MM-DD); intervals may overlap.
type SchoolHoliday struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SchoolTerm is a named period of the school year. Terms are informational
// only and are never enforced against lessons.
type SchoolTerm struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SchoolCalendar holds the school year bounds plus holiday and term intervals.
// YearStart and YearEnd are inclusive ISO date strings.
type SchoolCalendar struct {
	YearStart string          `json:"year_start"`
	YearEnd   string          `json:"year_end"`
	Holidays  []SchoolHoliday `json:"holidays"`
	Terms     []SchoolTerm    `json:"terms,omitempty"`
}

// ScheduleEntry is one weekly recurring slot for a class.
type ScheduleEntry struct {
	DayOfWeek int    `json:"day_of_week"`        // 0 (Sunday) .. 6 (Saturday)
	StartTime string `json:"start_time"`         // HH:MM
	Duration  int    `json:"duration,omitempty"` // minutes, 0 means default (50)
}
