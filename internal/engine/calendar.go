package engine

import "time"

// HoursPerBusinessDay is the fixed value of a Monday-Friday calendar day.
// Deliberately coarse: cycle time, aging and capacity all share the same
// explainable unit instead of sub-day precision.
const HoursPerBusinessDay = 8

// BusinessHours returns the elapsed working hours between two instants.
// Time of day is ignored: both ends are truncated to midnight and every
// Mon-Fri day in the half-open span [start, end) counts 8 hours.
// Returns 0 when end <= start. No holiday calendar.
func BusinessHours(start, end time.Time) int {
    if !end.After(start) { return 0 }
    d := truncateDay(start)
    stop := truncateDay(end)
    hours := 0
    for d.Before(stop) {
        if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
            hours += HoursPerBusinessDay
        }
        d = d.AddDate(0, 0, 1)
    }
    return hours
}

// BusinessDays is BusinessHours expressed in 8h days.
func BusinessDays(start, end time.Time) float64 {
    return float64(BusinessHours(start, end)) / HoursPerBusinessDay
}

func truncateDay(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
