package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps sessions in Redis as JSON under session:<id>. Expiry is
// left to the key TTL.
type SessionStore struct {
	client *redis.Client
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sessionRecord{
		UserID:    sess.UserID,
		Roles:     sess.Roles.Strings(),
		CreatedAt: sess.CreatedAt,
	})
	if err != nil {
		return domain.NewStoreError("encode session", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), payload, ttl).Err(); err != nil {
		return domain.NewStoreError("save session", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.NewStoreError("get session", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, domain.NewStoreError("decode session", err)
	}
	return &domain.Session{
		ID:        id,
		UserID:    rec.UserID,
		Roles:     domain.RoleSetFromStrings(rec.Roles),
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return domain.NewStoreError("delete session", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return sessionKeyPrefix + id
}
