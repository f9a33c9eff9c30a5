package schedule

import (
	"math"
	"time"

	"timetrack/internal/domain/dateutil"
)

// ruleFor resolves the weekday rule for a calendar date. The date string is
// interpreted as local midnight, no time zone conversion.
func ruleFor(ws WorkSchedule, date string) (DayRule, bool) {
	parsed, err := time.ParseInLocation(dateutil.ISODate, date, time.Local)
	if err != nil {
		return DayRule{}, false
	}
	return ws.Day(parsed.Weekday()), true
}

func IsWorkDay(ws WorkSchedule, date string) bool {
	rule, ok := ruleFor(ws, date)
	return ok && rule.Enabled
}

// ExpectedStart returns the scheduled start time for a date, if any.
func ExpectedStart(ws WorkSchedule, date string) (string, bool) {
	rule, ok := ruleFor(ws, date)
	if !ok || !rule.Enabled || rule.Start == "" {
		return "", false
	}
	return rule.Start, true
}

// IsLate reports whether an actual HH:MM start is after the scheduled one.
// Lexicographic comparison is valid because both sides are zero-padded.
func IsLate(ws WorkSchedule, date, actualStart string) bool {
	expected, ok := ExpectedStart(ws, date)
	if !ok {
		return false
	}
	return actualStart > expected
}

// PlannedMinutes sums hoursPerDay over every scheduled work day in
// [from, to] inclusive. An empty or inverted range yields 0.
func PlannedMinutes(ws WorkSchedule, hoursPerDay float64, from, to string) int {
	total := 0
	for _, date := range dateutil.DatesBetween(from, to) {
		if !IsWorkDay(ws, date) {
			continue
		}
		total += int(math.Round(hoursPerDay * 60))
	}
	return total
}
