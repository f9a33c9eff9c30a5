package request

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"timetrack/internal/apperror"
	"timetrack/internal/domain/dateutil"
	"timetrack/internal/domain/tracking"
	"timetrack/internal/domain/user"
)

type Service struct {
	Requests *Store
	Entries  *tracking.Store
}

func NewService(requests *Store, entries *tracking.Store) *Service {
	return &Service{Requests: requests, Entries: entries}
}

func (s *Service) Create(ctx context.Context, employeeID string, requestType Type, payload Payload) (ChangeRequest, error) {
	created, err := New(uuid.NewString(), employeeID, requestType, payload, time.Now())
	if err != nil {
		return ChangeRequest{}, err
	}
	if err := s.Requests.Create(ctx, created); err != nil {
		return ChangeRequest{}, err
	}
	return created, nil
}

func (s *Service) ListPending(ctx context.Context) ([]ChangeRequest, error) {
	items, err := s.Requests.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	sortByNewest(items)
	return items, nil
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]ChangeRequest, error) {
	items, err := s.Requests.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	sortByNewest(items)
	return items, nil
}

func sortByNewest(items []ChangeRequest) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Review applies the single pending -> approved/rejected transition. Only an
// admin may review. Approving a time correction then mutates the target time
// entry as a second store operation; that step is not transactional with the
// status change, so a failure leaves the request approved without the entry
// update (surfaced to the caller, not rolled back).
func (s *Service) Review(ctx context.Context, reviewerUserID string, reviewerRole user.Role, requestID string, action Action, comment string) (ChangeRequest, error) {
	if reviewerRole != user.RoleAdmin {
		return ChangeRequest{}, apperror.Forbidden("only admin can review requests")
	}

	updated, err := s.Requests.Update(ctx, requestID, func(current ChangeRequest) (ChangeRequest, error) {
		switch action {
		case ActionApprove:
			return current.Approve(reviewerUserID, comment, time.Now())
		case ActionReject:
			return current.Reject(reviewerUserID, comment, time.Now())
		default:
			return ChangeRequest{}, apperror.Validation("unknown review action %q", action)
		}
	})
	if err != nil {
		return ChangeRequest{}, err
	}

	if updated.Status == StatusApproved {
		if err := s.applyApproved(ctx, updated); err != nil {
			return ChangeRequest{}, err
		}
	}
	return updated, nil
}

// applyApproved performs the approval side effect. Only time corrections
// touch time entries; leave-type approvals record the status change only.
func (s *Service) applyApproved(ctx context.Context, req ChangeRequest) error {
	if req.Type != TypeTimeCorrection {
		return nil
	}

	date := req.Payload.Date
	if date == "" {
		return nil
	}

	if req.Payload.StartTime == "" || req.Payload.EndTime == "" {
		return apperror.Validation("startTime and endTime required for correction")
	}

	startAt, err := dateutil.Combine(date, req.Payload.StartTime)
	if err != nil {
		return apperror.Validation("invalid time")
	}
	endAt, err := dateutil.Combine(date, req.Payload.EndTime)
	if err != nil {
		return apperror.Validation("invalid time")
	}
	duration := dateutil.SecondsBetween(startAt, endAt)

	if entryID := strings.TrimSpace(req.Payload.TimeEntryID); entryID != "" {
		existing, err := s.Entries.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if existing.EmployeeID != req.EmployeeID {
			return apperror.Forbidden("time entry not owned by employee")
		}
		return s.overwriteEntry(ctx, entryID, endAt, duration)
	}

	// No target id: take the first entry for that day in storage order, or
	// create a fresh approved manual entry.
	sameDay, err := s.Entries.ListByDateRange(ctx, req.EmployeeID, date, date)
	if err != nil {
		return err
	}
	if len(sameDay) > 0 {
		return s.overwriteEntry(ctx, sameDay[0].ID, endAt, duration)
	}

	now := time.Now()
	entry, err := tracking.StartNew(uuid.NewString(), req.EmployeeID, date, startAt, tracking.SourceManual, now)
	if err != nil {
		return err
	}
	entry, err = entry.Stop(endAt, float64(duration), now)
	if err != nil {
		return err
	}
	return s.Entries.Create(ctx, entry.WithStatus(tracking.StatusApproved, now))
}

func (s *Service) overwriteEntry(ctx context.Context, entryID string, endAt time.Time, duration int) error {
	_, err := s.Entries.Update(ctx, entryID, func(current tracking.Entry) (tracking.Entry, error) {
		now := time.Now()
		stopped, err := current.Stop(endAt, float64(duration), now)
		if err != nil {
			return tracking.Entry{}, err
		}
		return stopped.WithStatus(tracking.StatusApproved, now), nil
	})
	return err
}
