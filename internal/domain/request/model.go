package request

import (
	"strings"
	"time"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/dateutil"
)

type Type string

const (
	TypeTimeCorrection Type = "timeCorrection"
	TypeVacation       Type = "vacation"
	TypeSickLeave      Type = "sickLeave"
	TypeDayOff         Type = "dayOff"
	TypeBusinessTrip   Type = "businessTrip"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Payload carries the type-specific request data. Which fields are required
// depends on the request type; see validatePayload.
type Payload struct {
	Date        string  `json:"date,omitempty"`
	TimeEntryID string  `json:"timeEntryId,omitempty"`
	StartTime   string  `json:"startTime,omitempty"`
	EndTime     string  `json:"endTime,omitempty"`
	Description string  `json:"description,omitempty"`
	Days        float64 `json:"days,omitempty"`
}

// ChangeRequest is a worker-submitted ask reviewed exactly once: pending
// transitions to approved or rejected and is terminal thereafter.
type ChangeRequest struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	Type          Type       `json:"type"`
	Payload       Payload    `json:"payload"`
	CreatedAt     time.Time  `json:"createdAt"`
	Status        Status     `json:"status"`
	ReviewerID    *string    `json:"reviewerId"`
	ReviewComment *string    `json:"reviewComment"`
	ReviewedAt    *time.Time `json:"reviewedAt"`
}

func (r ChangeRequest) RecordID() string { return r.ID }

func New(id, employeeID string, requestType Type, payload Payload, now time.Time) (ChangeRequest, error) {
	if err := validatePayload(requestType, payload); err != nil {
		return ChangeRequest{}, err
	}

	return ChangeRequest{
		ID:         id,
		EmployeeID: employeeID,
		Type:       requestType,
		Payload:    payload,
		CreatedAt:  now,
		Status:     StatusPending,
	}, nil
}

func (r ChangeRequest) Approve(reviewerID, comment string, now time.Time) (ChangeRequest, error) {
	return r.review(StatusApproved, reviewerID, comment, now)
}

func (r ChangeRequest) Reject(reviewerID, comment string, now time.Time) (ChangeRequest, error) {
	return r.review(StatusRejected, reviewerID, comment, now)
}

func (r ChangeRequest) review(status Status, reviewerID, comment string, now time.Time) (ChangeRequest, error) {
	if r.Status != StatusPending {
		return ChangeRequest{}, apperror.Validation("request already reviewed")
	}

	r.Status = status
	r.ReviewerID = &reviewerID
	r.ReviewComment = nil
	if comment != "" {
		r.ReviewComment = &comment
	}
	r.ReviewedAt = &now
	return r, nil
}

func validatePayload(requestType Type, payload Payload) error {
	switch requestType {
	case TypeTimeCorrection:
		if payload.Date == "" {
			return apperror.Validation("date required")
		}
		if !dateutil.ValidISODate(payload.Date) {
			return apperror.Validation("invalid date")
		}
		if id := strings.TrimSpace(payload.TimeEntryID); id != "" && len(id) < 8 {
			return apperror.Validation("invalid timeEntryId")
		}
		if payload.StartTime != "" && !dateutil.ValidHHMM(payload.StartTime) {
			return apperror.Validation("invalid startTime")
		}
		if payload.EndTime != "" && !dateutil.ValidHHMM(payload.EndTime) {
			return apperror.Validation("invalid endTime")
		}
		return nil
	case TypeVacation, TypeSickLeave, TypeDayOff, TypeBusinessTrip:
		if payload.Date == "" {
			return apperror.Validation("date required")
		}
		if !dateutil.ValidISODate(payload.Date) {
			return apperror.Validation("invalid date")
		}
		return nil
	default:
		return apperror.Validation("unknown request type %q", requestType)
	}
}
