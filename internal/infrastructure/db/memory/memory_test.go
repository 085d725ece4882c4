package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minifeed/feed-service/internal/core/domain"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	u := &domain.User{ID: "alice", PasswordHash: "h", Roles: domain.NewRoleSet(domain.RoleUser)}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, u), domain.ErrUserExists)

	got, err := repo.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)
	assert.True(t, got.Roles.Has(domain.RoleUser))

	_, err = repo.FindByID(ctx, "Alice")
	assert.ErrorIs(t, err, domain.ErrUserNotFound, "ids are case-sensitive")
}

func TestUserRepository_ConcurrentCreateAdmitsOne(t *testing.T) {
	repo := NewUserRepository()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Create(context.Background(), &domain.User{ID: "bob"}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestPostRepository_ListOrder(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	add := func(content string, at time.Time) {
		require.NoError(t, repo.Create(ctx, &domain.Post{Author: "a", Content: content, CreatedAt: at}))
	}
	add("old", t0)
	add("tie-first", t0.Add(time.Minute))
	add("tie-second", t0.Add(time.Minute))
	add("backdated", t0.Add(-time.Minute))

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)

	var got []string
	for _, p := range posts {
		got = append(got, p.Content)
	}
	assert.Equal(t, []string{"tie-first", "tie-second", "old", "backdated"}, got)
}

func TestPostRepository_FindDelete(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()

	p := &domain.Post{Author: "alice", Content: "hi", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Content)
	assert.Equal(t, 0, got.Likes)
	assert.Empty(t, got.LikedBy)

	require.NoError(t, repo.Delete(ctx, p.ID))
	require.NoError(t, repo.Delete(ctx, p.ID), "delete is idempotent")

	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostRepository_ToggleLike(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	p := &domain.Post{Author: "alice", Content: "hi", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, p))

	res, err := repo.ToggleLike(ctx, p.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeResult{Likes: 1, IsLiked: true}, *res)

	res, err = repo.ToggleLike(ctx, p.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeResult{Likes: 0, IsLiked: false}, *res)

	_, err = repo.ToggleLike(ctx, "missing", "bob")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestPostRepository_ToggleLikeConcurrent(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	p := &domain.Post{Author: "alice", Content: "hi", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, p))

	const users = 40
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.ToggleLike(ctx, p.ID, fmt.Sprintf("u%d", i))
		}(i)
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, users, got.Likes)
	assert.Len(t, got.LikedBy, users)
}

func TestPostRepository_ReturnsCopies(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	p := &domain.Post{Author: "alice", Content: "hi", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, p))

	got, _ := repo.FindByID(ctx, p.ID)
	got.LikedBy = append(got.LikedBy, "mallory")
	got.Likes = 99

	again, _ := repo.FindByID(ctx, p.ID)
	assert.Equal(t, 0, again.Likes)
	assert.Empty(t, again.LikedBy)
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	sess := &domain.Session{ID: "s1", UserID: "alice", Roles: domain.NewRoleSet(domain.RoleUser)}

	require.NoError(t, store.Save(ctx, sess, time.Hour))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "s1", UserID: "alice"}, time.Minute))

	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len(), "expired session is dropped on lookup")
}
