package repository

import (
	"context"
	"errors"

	"storefront/internal/model"
)

var (
	// ErrUserNotFound is returned when no record matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicatePhone is returned when the store's unique index rejects a write.
	ErrDuplicatePhone = errors.New("phone number already registered")
)

// UserRepository defines operations for user data
type UserRepository interface {
	// Create persists a new user and assigns its ID.
	Create(ctx context.Context, user *model.User) error
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
