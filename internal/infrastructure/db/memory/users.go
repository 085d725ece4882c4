// Package memory provides in-process stores for local development and tests.
// Every store is safe for concurrent use.
package memory

import (
	"context"
	"sync"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

// UserRepository keeps users in a map keyed by username.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// Create inserts user unless the id is taken. The check and the insert run
// under one lock, so concurrent signups for one name admit exactly one.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return domain.ErrUserExists
	}
	r.users[user.ID] = *user
	return nil
}
