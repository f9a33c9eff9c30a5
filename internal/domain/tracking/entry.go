package tracking

import (
	"math"
	"time"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/dateutil"
)

type EntryType string

const (
	TypeWork     EntryType = "work"
	TypeOvertime EntryType = "overtime"
	TypeWeekend  EntryType = "weekend"
	TypeAbsence  EntryType = "absence"
)

type Source string

const (
	SourceTimer  Source = "timer"
	SourceManual Source = "manual"
)

type Status string

const (
	StatusDraft         Status = "draft"
	StatusApproved      Status = "approved"
	StatusPendingChange Status = "pendingChange"
)

// Entry is one tracked work session. EndAt nil means the session is still
// running; a worker never has more than one running entry.
type Entry struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employeeId"`
	Date            string     `json:"date"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           *time.Time `json:"endAt"`
	DurationSeconds int        `json:"durationSeconds"`
	Type            EntryType  `json:"type"`
	Source          Source     `json:"source"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (e Entry) RecordID() string { return e.ID }

// StartNew opens a draft entry with no end and zero duration.
func StartNew(id, employeeID, date string, startAt time.Time, source Source, now time.Time) (Entry, error) {
	if !dateutil.ValidISODate(date) {
		return Entry{}, apperror.Validation("invalid date")
	}

	return Entry{
		ID:         id,
		EmployeeID: employeeID,
		Date:       date,
		StartAt:    startAt,
		Type:       TypeWork,
		Source:     source,
		Status:     StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Stop closes the entry. Duration is supplied by the caller, which computes
// it from the stored start; it is rounded and must not be negative.
func (e Entry) Stop(endAt time.Time, durationSeconds float64, now time.Time) (Entry, error) {
	if math.IsNaN(durationSeconds) || durationSeconds < 0 {
		return Entry{}, apperror.Validation("invalid duration")
	}
	e.EndAt = &endAt
	e.DurationSeconds = int(math.Round(durationSeconds))
	e.UpdatedAt = now
	return e, nil
}

func (e Entry) WithStatus(status Status, now time.Time) Entry {
	e.Status = status
	e.UpdatedAt = now
	return e
}

func (e Entry) IsRunning() bool {
	return e.EndAt == nil
}
