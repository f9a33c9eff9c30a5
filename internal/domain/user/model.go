package user

import (
	"regexp"
	"strings"
	"time"

	"timetrack/internal/apperror"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func ValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleEmployee:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func ValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is one login account. The persisted form carries the password hash;
// Profile is the view handed to API callers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         Role      `json:"role"`
	FullName     string    `json:"fullName"`
	Position     string    `json:"position"`
	Department   string    `json:"department"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u User) RecordID() string { return u.ID }

func New(id, email, passwordHash string, role Role, fullName, position, department string, now time.Time) (User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(normalized) {
		return User{}, apperror.Validation("invalid email")
	}
	if !ValidRole(role) {
		return User{}, apperror.Validation("invalid role %q", role)
	}

	return User{
		ID:           id,
		Email:        normalized,
		PasswordHash: passwordHash,
		Role:         role,
		FullName:     strings.TrimSpace(fullName),
		Position:     strings.TrimSpace(position),
		Department:   strings.TrimSpace(department),
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u User) WithProfileUpdate(fullName, position, department string, status Status, now time.Time) (User, error) {
	if !ValidStatus(status) {
		return User{}, apperror.Validation("invalid status %q", status)
	}
	u.FullName = strings.TrimSpace(fullName)
	u.Position = strings.TrimSpace(position)
	u.Department = strings.TrimSpace(department)
	u.Status = status
	u.UpdatedAt = now
	return u, nil
}

func (u User) WithPasswordHash(hash string, now time.Time) User {
	u.PasswordHash = hash
	u.UpdatedAt = now
	return u
}

func (u User) IsActive() bool {
	return u.Status == StatusActive
}

// Profile is the account without credentials.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	FullName   string    `json:"fullName"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u User) Public() Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		FullName:   u.FullName,
		Position:   u.Position,
		Department: u.Department,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
