package user

import (
	"context"
	"strings"

	"timetrack/internal/platform/jsonstore"
)

type Store struct {
	*jsonstore.Collection[User]
}

func NewStore(path string) *Store {
	return &Store{Collection: jsonstore.New[User](path)}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (User, bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return s.FindOne(ctx, func(u User) bool {
		return strings.ToLower(u.Email) == normalized
	})
}
