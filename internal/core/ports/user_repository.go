package ports

import (
	"context"

	"github.com/minifeed/feed-service/internal/core/domain"
)

// UserRepository persists user identity records.
type UserRepository interface {
	// FindByID returns domain.ErrUserNotFound when no user has that id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create stores a new user. It returns domain.ErrUserExists when the id
	// is already taken, including when a concurrent signup won the race.
	Create(ctx context.Context, user *domain.User) error
}
