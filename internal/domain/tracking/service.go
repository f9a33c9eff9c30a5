package tracking

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/dateutil"
)

type Service struct {
	Entries *Store
}

func NewService(entries *Store) *Service {
	return &Service{Entries: entries}
}

// StartWork opens a timer entry for the employee. The open-entry check and
// the append run in one locked store cycle, so at most one entry per
// employee is running at any instant even under concurrent calls.
func (s *Service) StartWork(ctx context.Context, employeeID string, now time.Time) (Entry, error) {
	entry, err := StartNew(uuid.NewString(), employeeID, dateutil.ISODateOf(now), now, SourceTimer, now)
	if err != nil {
		return Entry{}, err
	}

	err = s.Entries.Mutate(ctx, func(items []Entry) ([]Entry, error) {
		for _, existing := range items {
			if existing.EmployeeID == employeeID && existing.IsRunning() {
				return nil, apperror.Conflict("work already started")
			}
		}
		return append(items, entry), nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// StopWork closes the running entry, recomputing the duration from the
// stored start. Clock skew producing a negative interval clamps to zero.
// Lookup and close share one locked cycle; of two concurrent stops only the
// first succeeds.
func (s *Service) StopWork(ctx context.Context, employeeID string, now time.Time) (Entry, error) {
	var stopped Entry
	err := s.Entries.Mutate(ctx, func(items []Entry) ([]Entry, error) {
		for i, existing := range items {
			if existing.EmployeeID != employeeID || !existing.IsRunning() {
				continue
			}
			duration := dateutil.SecondsBetween(existing.StartAt, now)
			updated, err := existing.Stop(now, float64(duration), now)
			if err != nil {
				return nil, err
			}
			items[i] = updated
			stopped = updated
			return items, nil
		}
		return nil, apperror.Conflict("no active timer")
	})
	if err != nil {
		return Entry{}, err
	}
	return stopped, nil
}

type TimesheetRow struct {
	Date            string     `json:"date"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           *time.Time `json:"endAt"`
	DurationSeconds int        `json:"durationSeconds"`
	Status          Status     `json:"status"`
}

type Timesheet struct {
	From         string         `json:"from"`
	To           string         `json:"to"`
	TotalSeconds int            `json:"totalSeconds"`
	Rows         []TimesheetRow `json:"rows"`
}

// Timesheet lists the employee's entries in [from, to], ascending by date,
// with the duration total. A running entry appears with a null end.
func (s *Service) Timesheet(ctx context.Context, employeeID, from, to string) (Timesheet, error) {
	if !dateutil.ValidISODate(from) || !dateutil.ValidISODate(to) {
		return Timesheet{}, apperror.Validation("invalid date range")
	}

	entries, err := s.Entries.ListByDateRange(ctx, employeeID, from, to)
	if err != nil {
		return Timesheet{}, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})

	sheet := Timesheet{From: from, To: to, Rows: make([]TimesheetRow, 0, len(entries))}
	for _, e := range entries {
		sheet.Rows = append(sheet.Rows, TimesheetRow{
			Date:            e.Date,
			StartAt:         e.StartAt,
			EndAt:           e.EndAt,
			DurationSeconds: e.DurationSeconds,
			Status:          e.Status,
		})
		sheet.TotalSeconds += e.DurationSeconds
	}
	return sheet, nil
}

type DayEntry struct {
	ID              string     `json:"id"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           *time.Time `json:"endAt"`
	DurationSeconds int        `json:"durationSeconds"`
}

// DayEntries lists the employee's sessions for one date, earliest first.
func (s *Service) DayEntries(ctx context.Context, employeeID, date string) ([]DayEntry, error) {
	if !dateutil.ValidISODate(date) {
		return nil, apperror.Validation("invalid date")
	}

	entries, err := s.Entries.ListByDateRange(ctx, employeeID, date, date)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartAt.Before(entries[j].StartAt)
	})

	out := make([]DayEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DayEntry{
			ID:              e.ID,
			StartAt:         e.StartAt,
			EndAt:           e.EndAt,
			DurationSeconds: e.DurationSeconds,
		})
	}
	return out, nil
}
