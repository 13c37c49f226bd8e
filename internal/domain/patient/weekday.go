package patient

import (
	"strings"
	"time"
)

var canonicalWeekdays = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
	"sunday":    "Sunday",
}

// CanonicalWeekday maps a case-insensitive weekday name to its canonical
// capitalized English form. The second return is false for unknown names.
func CanonicalWeekday(name string) (string, bool) {
	day, ok := canonicalWeekdays[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}

// WeekdayOf derives the canonical weekday name for a YYYY-MM-DD date key.
// The schedule selection and the adherence calculation both go through this
// single derivation so the two can never disagree. Returns "" for a
// malformed key.
func WeekdayOf(dateKey string) string {
	t, err := time.Parse(DateKey, dateKey)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// NormalizeWeekdays canonicalizes a weekday set, dropping unknown names and
// duplicates while preserving first-seen order.
func NormalizeWeekdays(days []string) []string {
	seen := make(map[string]bool, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		day, ok := CanonicalWeekday(d)
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	return out
}
