package ports

import (
	"context"

	"github.com/minifeed/feed-service/internal/core/domain"
)

// AuthService handles account creation.
type AuthService interface {
	Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error)
	ProvisionAdmin(ctx context.Context, password string) (*domain.User, error)
}

// SessionManager issues, resolves and destroys sessions. Tokens are opaque
// to clients.
type SessionManager interface {
	Login(ctx context.Context, username, password string) (string, *domain.Session, error)
	Logout(ctx context.Context, token string)
	// Current never fails: a nil session means the caller is anonymous.
	Current(ctx context.Context, token string) *domain.Session
}
