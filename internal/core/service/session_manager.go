package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

// dummyPassword is hashed once at startup so a login for an unknown user
// spends the same bcrypt time as a login with a wrong password.
const dummyPassword = "feed-service-timing-equalizer"

// SessionManager issues and resolves cookie sessions. The token handed to
// the client is an HS256 JWT carrying only the random session id; identity
// and roles stay in the SessionStore.
type SessionManager struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	store     ports.SessionStore
	secret    []byte
	ttl       time.Duration
	dummyHash string
	log       zerolog.Logger
}

var _ ports.SessionManager = (*SessionManager)(nil)

func NewSessionManager(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	store ports.SessionStore,
	secret string,
	ttl time.Duration,
	log zerolog.Logger,
) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare dummy hash")
	}
	return &SessionManager{
		users:     users,
		hasher:    hasher,
		store:     store,
		secret:    []byte(secret),
		ttl:       ttl,
		dummyHash: dummy,
		log:       log,
	}
}

// TTL is the lifetime of issued sessions.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Login verifies the credentials and opens a session. Unknown users and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (m *SessionManager) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := m.users.FindByID(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			m.hasher.Verify(password, m.dummyHash)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if !m.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Roles:     user.Roles,
		CreatedAt: now,
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return "", nil, fmt.Errorf("login: save session: %w", err)
	}

	token, err := m.sign(sess.ID, now)
	if err != nil {
		_ = m.store.Delete(ctx, sess.ID)
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	m.log.Info().Str("user", user.ID).Msg("user logged in")
	return token, sess, nil
}

// Logout destroys the session behind token. Failures are logged only; the
// caller proceeds as if the session were gone.
func (m *SessionManager) Logout(ctx context.Context, token string) {
	id, ok := m.parse(token)
	if !ok {
		return
	}
	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Warn().Err(err).Msg("failed to destroy session")
	}
}

// Current resolves token to its session, or nil when the request is anonymous.
func (m *SessionManager) Current(ctx context.Context, token string) *domain.Session {
	id, ok := m.parse(token)
	if !ok {
		return nil
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			m.log.Warn().Err(err).Msg("session lookup failed")
		}
		return nil
	}
	return sess
}

func (m *SessionManager) sign(sessionID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *SessionManager) parse(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", false
	}
	return claims.ID, true
}
