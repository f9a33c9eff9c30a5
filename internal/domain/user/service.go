package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"timetrack/internal/apperror"
	"timetrack/internal/auth"
)

type Service struct {
	Store    *Store
	secret   string
	tokenTTL time.Duration
}

func NewService(store *Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{Store: store, secret: secret, tokenTTL: tokenTTL}
}

type AccountInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	FullName   string `json:"fullName"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// Login verifies credentials and issues a bearer token for the account.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	found, ok, err := s.Store.GetByEmail(ctx, email)
	if err != nil {
		return "", User{}, err
	}
	if !ok {
		return "", User{}, apperror.Unauthorized("invalid credentials")
	}
	if !found.IsActive() {
		return "", User{}, apperror.Unauthorized("user inactive")
	}
	if err := auth.CheckPassword(found.PasswordHash, password); err != nil {
		return "", User{}, apperror.Unauthorized("invalid credentials")
	}

	token, err := auth.GenerateToken(s.secret, auth.Claims{UserID: found.ID, Role: string(found.Role)}, s.tokenTTL)
	if err != nil {
		return "", User{}, apperror.Internal("sign token", err)
	}
	return token, found, nil
}

// BootstrapAdmin creates the first admin account. The emptiness check and
// the insert share one locked store cycle, so concurrent bootstraps cannot
// both succeed.
func (s *Service) BootstrapAdmin(ctx context.Context, in AccountInput) (User, error) {
	in.Role = RoleAdmin
	created, err := s.prepare(in)
	if err != nil {
		return User{}, err
	}

	err = s.Store.Mutate(ctx, func(items []User) ([]User, error) {
		if len(items) > 0 {
			return nil, apperror.Validation("users already exist")
		}
		return append(items, created), nil
	})
	if err != nil {
		return User{}, err
	}
	return created, nil
}

// Create adds an account with the given role. Caller is responsible for the
// admin gate. The duplicate-email check runs inside the store lock.
func (s *Service) Create(ctx context.Context, in AccountInput) (User, error) {
	created, err := s.prepare(in)
	if err != nil {
		return User{}, err
	}

	err = s.Store.Mutate(ctx, func(items []User) ([]User, error) {
		for _, existing := range items {
			if strings.ToLower(existing.Email) == created.Email {
				return nil, apperror.Validation("email already in use")
			}
		}
		return append(items, created), nil
	})
	if err != nil {
		return User{}, err
	}
	return created, nil
}

func (s *Service) prepare(in AccountInput) (User, error) {
	if len(in.Password) < 8 {
		return User{}, apperror.Validation("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, apperror.Internal("hash password", err)
	}
	return New(uuid.NewString(), in.Email, hash, in.Role, in.FullName, in.Position, in.Department, time.Now())
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.Store.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.Store.GetByID(ctx, id)
}

// CurrentUser resolves a token subject to an active account.
func (s *Service) CurrentUser(ctx context.Context, userID string) (User, error) {
	found, err := s.Store.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if !found.IsActive() {
		return User{}, apperror.Unauthorized("user inactive")
	}
	return found, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID, fullName, position, department string, status Status) (User, error) {
	return s.Store.Update(ctx, userID, func(current User) (User, error) {
		return current.WithProfileUpdate(fullName, position, department, status, time.Now())
	})
}

// ChangePassword lets an admin reset anyone, and an employee only themselves.
func (s *Service) ChangePassword(ctx context.Context, actorRole Role, actorUserID, userID, newPassword string) error {
	if actorRole != RoleAdmin && actorUserID != userID {
		return apperror.Forbidden("cannot change password for another user")
	}
	if len(newPassword) < 8 {
		return apperror.Validation("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal("hash password", err)
	}

	_, err = s.Store.Update(ctx, userID, func(current User) (User, error) {
		return current.WithPasswordHash(hash, time.Now()), nil
	})
	return err
}
