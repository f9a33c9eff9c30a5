// Package dateutil handles the two wire formats used throughout the system:
// calendar dates as YYYY-MM-DD and clock times as zero-padded HH:MM.
package dateutil

import (
	"regexp"
	"time"
)

const ISODate = "2006-01-02"

var hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

func ValidISODate(value string) bool {
	_, err := time.ParseInLocation(ISODate, value, time.Local)
	return err == nil
}

func ValidHHMM(value string) bool {
	return hhmmPattern.MatchString(value)
}

func ISODateOf(t time.Time) string {
	return t.Format(ISODate)
}

// Combine builds the local instant for a calendar date plus a clock time.
func Combine(date, hhmm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.Local)
}

// SecondsBetween returns the whole seconds from start to end, never negative.
func SecondsBetween(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		return 0
	}
	return int(diff / time.Second)
}

// DatesBetween lists every date in [from, to] inclusive, ascending.
// An empty range or an unparseable bound yields nil.
func DatesBetween(from, to string) []string {
	start, err := time.ParseInLocation(ISODate, from, time.Local)
	if err != nil {
		return nil
	}
	end, err := time.ParseInLocation(ISODate, to, time.Local)
	if err != nil {
		return nil
	}

	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(ISODate))
	}
	return out
}
