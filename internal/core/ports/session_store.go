package ports

import (
	"context"
	"time"

	"github.com/minifeed/feed-service/internal/core/domain"
)

// SessionStore keeps server-side sessions.
type SessionStore interface {
	// Save stores sess under sess.ID for ttl.
	Save(ctx context.Context, sess *domain.Session, ttl time.Duration) error
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
