package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when username or email is already taken.
	ErrConflict = errors.New("username or email already in use")
)

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// Save persists changes to an existing user and returns the stored record.
	Save(ctx context.Context, u *User) (*User, error)
}
