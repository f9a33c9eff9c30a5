package tracking

import (
	"context"

	"timetrack/internal/platform/jsonstore"
)

type Store struct {
	*jsonstore.Collection[Entry]
}

func NewStore(path string) *Store {
	return &Store{Collection: jsonstore.New[Entry](path)}
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Entry, error) {
	return s.Filter(ctx, func(e Entry) bool {
		return e.EmployeeID == employeeID
	})
}

// ListByDateRange filters entries whose date falls in [from, to] inclusive.
// Empty employeeID matches every employee. Dates compare lexicographically.
func (s *Store) ListByDateRange(ctx context.Context, employeeID, from, to string) ([]Entry, error) {
	return s.Filter(ctx, func(e Entry) bool {
		if employeeID != "" && e.EmployeeID != employeeID {
			return false
		}
		return e.Date >= from && e.Date <= to
	})
}
