package employee

import (
	"context"

	"timetrack/internal/platform/jsonstore"
)

type Store struct {
	*jsonstore.Collection[Employee]
}

func NewStore(path string) *Store {
	return &Store{Collection: jsonstore.New[Employee](path)}
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (Employee, bool, error) {
	return s.FindOne(ctx, func(e Employee) bool {
		return e.UserID == userID
	})
}
