package therapy

import (
	"time"

	"github.com/clinicore/clinicore/internal/domain/patient"
)

// DefaultMaxCalendarDays bounds how many days a treatment range expands to.
const DefaultMaxCalendarDays = 365

// ExpandRange expands an inclusive [startDate, endDate] range into ascending
// YYYY-MM-DD keys, one per calendar day. An inverted or malformed range
// yields an empty sequence rather than an error. The sequence is capped at
// maxDays entries; maxDays <= 0 falls back to DefaultMaxCalendarDays.
func ExpandRange(startDate, endDate string, maxDays int) []string {
	start, err := time.Parse(patient.DateKey, startDate)
	if err != nil {
		return []string{}
	}
	end, err := time.Parse(patient.DateKey, endDate)
	if err != nil {
		return []string{}
	}
	if end.Before(start) {
		return []string{}
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxCalendarDays
	}

	days := make([]string, 0, maxDays)
	for d := start; !d.After(end) && len(days) < maxDays; d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(patient.DateKey))
	}
	return days
}

// PreviousDate returns the calendar entry immediately before date, or ""
// when date is the first entry or not part of the calendar at all.
func PreviousDate(calendar []string, date string) string {
	for i, d := range calendar {
		if d == date {
			if i == 0 {
				return ""
			}
			return calendar[i-1]
		}
	}
	return ""
}
