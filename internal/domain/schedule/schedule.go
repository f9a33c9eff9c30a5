// Package schedule models the weekly work pattern of one employee and
// evaluates calendar dates against it.
package schedule

import (
	"time"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/dateutil"
)

// DayRule is the expectation for one weekday. Start and end are HH:MM and
// only checked when the day is enabled. End at or before start is accepted
// by the entity layer.
type DayRule struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type WorkSchedule struct {
	Mon DayRule `json:"mon"`
	Tue DayRule `json:"tue"`
	Wed DayRule `json:"wed"`
	Thu DayRule `json:"thu"`
	Fri DayRule `json:"fri"`
	Sat DayRule `json:"sat"`
	Sun DayRule `json:"sun"`
}

// Standard is the default Mon-Fri 09:00-18:00 pattern.
func Standard() WorkSchedule {
	workday := DayRule{Enabled: true, Start: "09:00", End: "18:00"}
	return WorkSchedule{
		Mon: workday,
		Tue: workday,
		Wed: workday,
		Thu: workday,
		Fri: workday,
		Sat: DayRule{},
		Sun: DayRule{},
	}
}

func (ws WorkSchedule) Validate() error {
	for _, rule := range []DayRule{ws.Mon, ws.Tue, ws.Wed, ws.Thu, ws.Fri, ws.Sat, ws.Sun} {
		if !rule.Enabled {
			continue
		}
		if !dateutil.ValidHHMM(rule.Start) || !dateutil.ValidHHMM(rule.End) {
			return apperror.Validation("invalid work schedule time format")
		}
	}
	return nil
}

func (ws WorkSchedule) Day(weekday time.Weekday) DayRule {
	switch weekday {
	case time.Monday:
		return ws.Mon
	case time.Tuesday:
		return ws.Tue
	case time.Wednesday:
		return ws.Wed
	case time.Thursday:
		return ws.Thu
	case time.Friday:
		return ws.Fri
	case time.Saturday:
		return ws.Sat
	default:
		return ws.Sun
	}
}
