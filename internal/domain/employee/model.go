package employee

import (
	"time"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/schedule"
)

type EmploymentType string

const (
	FullTime EmploymentType = "fullTime"
	PartTime EmploymentType = "partTime"
)

func ValidEmploymentType(t EmploymentType) bool {
	switch t {
	case FullTime, PartTime:
		return true
	default:
		return false
	}
}

// Employee is the worker profile tied to one account. Time entries and
// change requests reference its id, not the account id.
type Employee struct {
	ID                  string                `json:"id"`
	UserID              string                `json:"userId"`
	StandardHoursPerDay float64               `json:"standardHoursPerDay"`
	EmploymentType      EmploymentType        `json:"employmentType"`
	WorkSchedule        schedule.WorkSchedule `json:"workSchedule"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

func (e Employee) RecordID() string { return e.ID }

func New(id, userID string, hoursPerDay float64, employmentType EmploymentType, ws schedule.WorkSchedule, now time.Time) (Employee, error) {
	if hoursPerDay <= 0 || hoursPerDay > 24 {
		return Employee{}, apperror.Validation("invalid standard hours per day")
	}
	if !ValidEmploymentType(employmentType) {
		return Employee{}, apperror.Validation("invalid employment type %q", employmentType)
	}
	if err := ws.Validate(); err != nil {
		return Employee{}, err
	}

	return Employee{
		ID:                  id,
		UserID:              userID,
		StandardHoursPerDay: hoursPerDay,
		EmploymentType:      employmentType,
		WorkSchedule:        ws,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func (e Employee) WithSchedule(ws schedule.WorkSchedule, now time.Time) (Employee, error) {
	if err := ws.Validate(); err != nil {
		return Employee{}, err
	}
	e.WorkSchedule = ws
	e.UpdatedAt = now
	return e, nil
}
