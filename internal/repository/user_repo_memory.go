package repository

import (
	"context"
	"sync"

	"storefront/internal/model"

	"github.com/google/uuid"
)

type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byPhone map[string]string
}

// NewMemoryUserRepository creates a process-local UserRepository. Data is
// lost on restart; it backs the "memory" store driver and tests.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]model.User),
		byPhone: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byPhone[user.Phone]; exists {
		return ErrDuplicatePhone
	}
	user.ID = uuid.NewString()
	r.byID[user.ID] = *user
	r.byPhone[user.Phone] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[phone]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) Ping(context.Context) error { return nil }
