package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	findErr   error
	createErr error
	creates   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.users[user.ID]; exists {
		return domain.ErrUserExists
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// ---------------------------------------------------------------------------
// Hasher: salted but cheap, so tests stay fast.
// ---------------------------------------------------------------------------

type stubHasher struct {
	mu       sync.Mutex
	salt     int
	hashes   int
	verifies int
	hashErr  error
}

func (h *stubHasher) Hash(plaintext string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashes++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.salt++
	return fmt.Sprintf("salt%d$%s", h.salt, reverse(plaintext)), nil
}

func (h *stubHasher) Verify(plaintext, hash string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.verifies++
	_, stored, ok := strings.Cut(hash, "$")
	return ok && stored == reverse(plaintext)
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	saveErr   error
	getErr    error
	deleteErr error
	deleted   []string
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.sessions, id)
	return nil
}

// ---------------------------------------------------------------------------
// Posts: the mutex makes ToggleLike atomic, mirroring the store contract.
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	mu        sync.Mutex
	posts     []*domain.Post
	seq       int
	createErr error
	findErr   error
	deleteErr error
	toggleErr error
	deletes   []string
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.LikedBy = append([]string(nil), p.LikedBy...)
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	p.ID = fmt.Sprintf("post-%d", r.seq)
	r.posts = append(r.posts, clonePost(p))
	return nil
}

func (r *stubPostRepo) ListAll(_ context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubPostRepo) find(id string) *domain.Post {
	for _, p := range r.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p := r.find(id)
	if p == nil {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, id)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubPostRepo) ToggleLike(_ context.Context, postID, userID string) (*domain.LikeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.toggleErr != nil {
		return nil, r.toggleErr
	}
	p := r.find(postID)
	if p == nil {
		return nil, domain.ErrPostNotFound
	}
	liked := false
	for i, id := range p.LikedBy {
		if id == userID {
			p.LikedBy = append(p.LikedBy[:i], p.LikedBy[i+1:]...)
			p.Likes--
			liked = true
			break
		}
	}
	if !liked {
		p.LikedBy = append(p.LikedBy, userID)
		p.Likes++
	}
	return &domain.LikeResult{Likes: p.Likes, IsLiked: !liked}, nil
}

func userSession(id string) *domain.Session {
	return &domain.Session{ID: "sess-" + id, UserID: id, Roles: domain.NewRoleSet(domain.RoleUser)}
}

func adminSession() *domain.Session {
	return &domain.Session{ID: "sess-admin", UserID: "admin", Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin)}
}
