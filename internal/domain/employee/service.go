package employee

import (
	"context"
	"time"

	"github.com/google/uuid"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/request"
	"timetrack/internal/domain/schedule"
	"timetrack/internal/domain/tracking"
	"timetrack/internal/domain/user"
)

type Service struct {
	Employees *Store
	Users     *user.Service
	Entries   *tracking.Store
	Requests  *request.Store
}

func NewService(employees *Store, users *user.Service, entries *tracking.Store, requests *request.Store) *Service {
	return &Service{Employees: employees, Users: users, Entries: entries, Requests: requests}
}

type CreateInput struct {
	Email               string         `json:"email"`
	Password            string         `json:"password"`
	FullName            string         `json:"fullName"`
	Position            string         `json:"position"`
	Department          string         `json:"department"`
	StandardHoursPerDay float64        `json:"standardHoursPerDay"`
	EmploymentType      EmploymentType `json:"employmentType"`
}

// Create provisions an employee account plus its worker profile with the
// standard weekly schedule.
func (s *Service) Create(ctx context.Context, in CreateInput) (user.User, Employee, error) {
	account, err := s.Users.Create(ctx, user.AccountInput{
		Email:      in.Email,
		Password:   in.Password,
		Role:       user.RoleEmployee,
		FullName:   in.FullName,
		Position:   in.Position,
		Department: in.Department,
	})
	if err != nil {
		return user.User{}, Employee{}, err
	}

	profile, err := New(uuid.NewString(), account.ID, in.StandardHoursPerDay, in.EmploymentType, schedule.Standard(), time.Now())
	if err != nil {
		return user.User{}, Employee{}, err
	}
	if err := s.Employees.Create(ctx, profile); err != nil {
		return user.User{}, Employee{}, err
	}
	return account, profile, nil
}

// GetForUser resolves the worker profile behind an account id.
func (s *Service) GetForUser(ctx context.Context, userID string) (Employee, error) {
	profile, ok, err := s.Employees.GetByUserID(ctx, userID)
	if err != nil {
		return Employee{}, err
	}
	if !ok {
		return Employee{}, apperror.NotFound("employee profile not found")
	}
	return profile, nil
}

type ListedRow struct {
	EmployeeID          string         `json:"employeeId"`
	StandardHoursPerDay float64        `json:"standardHoursPerDay"`
	EmploymentType      EmploymentType `json:"employmentType"`
	User                user.Profile   `json:"user"`
}

// List joins each worker profile with its account. Profiles whose account is
// gone are skipped.
func (s *Service) List(ctx context.Context) ([]ListedRow, error) {
	profiles, err := s.Employees.Collection.List(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]user.User, len(accounts))
	for _, account := range accounts {
		byID[account.ID] = account
	}

	rows := make([]ListedRow, 0, len(profiles))
	for _, profile := range profiles {
		account, ok := byID[profile.UserID]
		if !ok {
			continue
		}
		rows = append(rows, ListedRow{
			EmployeeID:          profile.ID,
			StandardHoursPerDay: profile.StandardHoursPerDay,
			EmploymentType:      profile.EmploymentType,
			User:                account.Public(),
		})
	}
	return rows, nil
}

// ReplaceSchedule swaps the worker's weekly pattern after validation.
func (s *Service) ReplaceSchedule(ctx context.Context, employeeID string, ws schedule.WorkSchedule) (Employee, error) {
	return s.Employees.Update(ctx, employeeID, func(current Employee) (Employee, error) {
		return current.WithSchedule(ws, time.Now())
	})
}

// DeleteCascade removes the worker profile and everything hanging off it:
// time entries, change requests, and finally the account.
func (s *Service) DeleteCascade(ctx context.Context, actorRole user.Role, employeeID string) error {
	if actorRole != user.RoleAdmin {
		return apperror.Forbidden("only admin can delete employees")
	}

	profile, err := s.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}

	entries, err := s.Entries.ListByEmployee(ctx, profile.ID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.Entries.Delete(ctx, entry.ID); err != nil {
			return err
		}
	}

	requests, err := s.Requests.ListByEmployee(ctx, profile.ID)
	if err != nil {
		return err
	}
	for _, req := range requests {
		if err := s.Requests.Delete(ctx, req.ID); err != nil {
			return err
		}
	}

	if err := s.Employees.Delete(ctx, profile.ID); err != nil {
		return err
	}
	return s.Users.Store.Delete(ctx, profile.UserID)
}
