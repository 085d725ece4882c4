package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

type PostService struct {
	repo ports.PostRepository
	log  zerolog.Logger
}

var _ ports.PostService = (*PostService)(nil)

func NewPostService(repo ports.PostRepository, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, log: log}
}

// CreatePost publishes content authored by the session's user.
func (s *PostService) CreatePost(ctx context.Context, sess *domain.Session, content string) (*domain.Post, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("content", "post content must not be empty")
	}

	post := &domain.Post{
		Author:    sess.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		LikedBy:   []string{},
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info().Str("post_id", post.ID).Str("author", post.Author).Msg("post created")
	return post, nil
}

// ListPosts returns the whole feed, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ToggleLike likes the post for the session's user, or unlikes it when
// already liked.
func (s *PostService) ToggleLike(ctx context.Context, sess *domain.Session, postID string) (*domain.LikeResult, error) {
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	if postID == "" {
		return nil, domain.ErrPostNotFound
	}

	res, err := s.repo.ToggleLike(ctx, postID, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("toggle like: %w", err)
	}

	s.log.Debug().
		Str("post_id", postID).
		Str("user", sess.UserID).
		Bool("liked", res.IsLiked).
		Int("likes", res.Likes).
		Msg("like toggled")
	return res, nil
}

// DeletePost removes the post when domain.CanDelete allows it. A post that is
// already gone counts as deleted.
func (s *PostService) DeletePost(ctx context.Context, sess *domain.Session, postID string) error {
	if sess == nil {
		return domain.ErrUnauthorized
	}
	if postID == "" {
		return nil
	}

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil
		}
		return fmt.Errorf("delete post: %w", err)
	}

	if !domain.CanDelete(post, sess) {
		s.log.Warn().Str("post_id", postID).Str("user", sess.UserID).Msg("delete declined")
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.log.Info().Str("post_id", postID).Str("user", sess.UserID).Bool("admin", sess.IsAdmin()).Msg("post deleted")
	return nil
}
