package ports

import (
	"context"

	"github.com/minifeed/feed-service/internal/core/domain"
)

// PostRepository persists feed posts.
type PostRepository interface {
	// Create stores p and assigns its ID.
	Create(ctx context.Context, p *domain.Post) error
	// ListAll returns every post, newest first. Posts with equal CreatedAt
	// keep their insertion order.
	ListAll(ctx context.Context) ([]*domain.Post, error)
	// FindByID returns domain.ErrPostNotFound when the post does not exist.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// Delete removes the post. Deleting a missing post is not an error.
	Delete(ctx context.Context, id string) error
	// ToggleLike flips userID's membership in the post's liked-by set and
	// adjusts the like counter in one atomic store operation: no reader can
	// observe the set and the counter disagreeing, and concurrent toggles by
	// different users are never lost. Implementations must not emulate this
	// with a read followed by a separate write. Returns domain.ErrPostNotFound
	// when the post does not exist.
	ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResult, error)
}
