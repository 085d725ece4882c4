package ports

import (
	"context"

	"github.com/minifeed/feed-service/internal/core/domain"
)

// PostService defines the feed use cases. Every mutating call takes the
// caller's session explicitly.
type PostService interface {
	CreatePost(ctx context.Context, sess *domain.Session, content string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	ToggleLike(ctx context.Context, sess *domain.Session, postID string) (*domain.LikeResult, error)
	// DeletePost is a no-op for a missing post and returns domain.ErrForbidden
	// when the session may not delete it.
	DeletePost(ctx context.Context, sess *domain.Session, postID string) error
}
