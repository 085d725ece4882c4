package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

// PostRepository keeps posts in insertion order.
type PostRepository struct {
	mu    sync.RWMutex
	posts []*domain.Post
	index map[string]*domain.Post
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository() *PostRepository {
	return &PostRepository{index: make(map[string]*domain.Post)}
}

func copyPost(p *domain.Post) *domain.Post {
	c := *p
	c.LikedBy = append(make([]string, 0, len(p.LikedBy)), p.LikedBy...)
	return &c
}

func (r *PostRepository) Create(_ context.Context, p *domain.Post) error {
	p.ID = uuid.NewString()
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	p.Likes = len(p.LikedBy)

	r.mu.Lock()
	defer r.mu.Unlock()
	stored := copyPost(p)
	r.posts = append(r.posts, stored)
	r.index[stored.ID] = stored
	return nil
}

// ListAll sorts a snapshot newest first. The sort is stable over insertion
// order, so equal timestamps list the earlier insert first.
func (r *PostRepository) ListAll(_ context.Context) ([]*domain.Post, error) {
	r.mu.RLock()
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, copyPost(p))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.index[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return copyPost(p), nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[id]; !ok {
		return nil
	}
	delete(r.index, id)
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			break
		}
	}
	return nil
}

func (r *PostRepository) ToggleLike(_ context.Context, postID, userID string) (*domain.LikeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.index[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}

	liked := true
	for i, id := range p.LikedBy {
		if id == userID {
			p.LikedBy = append(p.LikedBy[:i], p.LikedBy[i+1:]...)
			liked = false
			break
		}
	}
	if liked {
		p.LikedBy = append(p.LikedBy, userID)
	}
	p.Likes = len(p.LikedBy)

	return &domain.LikeResult{Likes: p.Likes, IsLiked: liked}, nil
}
