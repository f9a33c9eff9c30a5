package request

import (
	"context"

	"timetrack/internal/platform/jsonstore"
)

type Store struct {
	*jsonstore.Collection[ChangeRequest]
}

func NewStore(path string) *Store {
	return &Store{Collection: jsonstore.New[ChangeRequest](path)}
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]ChangeRequest, error) {
	return s.Filter(ctx, func(r ChangeRequest) bool {
		return r.EmployeeID == employeeID
	})
}

func (s *Store) ListPending(ctx context.Context) ([]ChangeRequest, error) {
	return s.Filter(ctx, func(r ChangeRequest) bool {
		return r.Status == StatusPending
	})
}
