// Package report aggregates tracked time against the weekly schedules for
// every employee over a date range.
package report

import (
	"context"
	"math"
	"sort"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/dateutil"
	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/schedule"
	"timetrack/internal/domain/tracking"
	"timetrack/internal/domain/user"
)

type Row struct {
	EmployeeID     string `json:"employeeId"`
	UserID         string `json:"userId"`
	FullName       string `json:"fullName"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	WorkedSeconds  int    `json:"workedSeconds"`
	PlannedMinutes int    `json:"plannedMinutes"`
	DeltaMinutes   int    `json:"deltaMinutes"`
	LateDays       int    `json:"lateDays"`
	MissingDays    int    `json:"missingDays"`
}

type AdminReport struct {
	From               string `json:"from"`
	To                 string `json:"to"`
	TotalWorkedSeconds int    `json:"totalWorkedSeconds"`
	Rows               []Row  `json:"rows"`
}

type Service struct {
	Employees *employee.Store
	Users     *user.Store
	Entries   *tracking.Store
}

func NewService(employees *employee.Store, users *user.Store, entries *tracking.Store) *Service {
	return &Service{Employees: employees, Users: users, Entries: entries}
}

// Admin builds the cross-employee report for [from, to]. Profiles whose
// account cannot be found are skipped; rows sort by worked time descending.
func (s *Service) Admin(ctx context.Context, from, to string) (AdminReport, error) {
	if !dateutil.ValidISODate(from) || !dateutil.ValidISODate(to) {
		return AdminReport{}, apperror.Validation("invalid date range")
	}

	profiles, err := s.Employees.List(ctx)
	if err != nil {
		return AdminReport{}, err
	}
	accounts, err := s.Users.List(ctx)
	if err != nil {
		return AdminReport{}, err
	}
	entries, err := s.Entries.ListByDateRange(ctx, "", from, to)
	if err != nil {
		return AdminReport{}, err
	}

	accountByID := make(map[string]user.User, len(accounts))
	for _, account := range accounts {
		accountByID[account.ID] = account
	}
	entriesByEmployee := make(map[string][]tracking.Entry)
	for _, entry := range entries {
		entriesByEmployee[entry.EmployeeID] = append(entriesByEmployee[entry.EmployeeID], entry)
	}

	out := AdminReport{From: from, To: to, Rows: []Row{}}

	for _, profile := range profiles {
		account, ok := accountByID[profile.UserID]
		if !ok {
			continue
		}
		row := buildRow(profile, account, entriesByEmployee[profile.ID], from, to)
		out.TotalWorkedSeconds += row.WorkedSeconds
		out.Rows = append(out.Rows, row)
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		return out.Rows[i].WorkedSeconds > out.Rows[j].WorkedSeconds
	})
	return out, nil
}

func buildRow(profile employee.Employee, account user.User, entries []tracking.Entry, from, to string) Row {
	// Several entries may land on one date; the last in storage order is
	// the one checked for lateness.
	workedSeconds := 0
	entryByDate := make(map[string]tracking.Entry, len(entries))
	for _, entry := range entries {
		workedSeconds += entry.DurationSeconds
		entryByDate[entry.Date] = entry
	}

	plannedMinutes := schedule.PlannedMinutes(profile.WorkSchedule, profile.StandardHoursPerDay, from, to)

	missingDays, lateDays := 0, 0
	for _, date := range dateutil.DatesBetween(from, to) {
		if !schedule.IsWorkDay(profile.WorkSchedule, date) {
			continue
		}
		entry, present := entryByDate[date]
		if !present {
			missingDays++
			continue
		}
		if schedule.IsLate(profile.WorkSchedule, date, entry.StartAt.Format("15:04")) {
			lateDays++
		}
	}

	return Row{
		EmployeeID:     profile.ID,
		UserID:         account.ID,
		FullName:       account.FullName,
		Department:     account.Department,
		Position:       account.Position,
		WorkedSeconds:  workedSeconds,
		PlannedMinutes: plannedMinutes,
		DeltaMinutes:   int(math.Round(float64(workedSeconds)/60)) - plannedMinutes,
		LateDays:       lateDays,
		MissingDays:    missingDays,
	}
}
