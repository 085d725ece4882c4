package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/api/metrics"
	"github.com/minifeed/feed-service/internal/api/views"
	"github.com/minifeed/feed-service/internal/core/domain"
)

var nopLog = zerolog.Nop()

type stubAuthService struct {
	registerFn  func(ctx context.Context, username, password, confirm string) (*domain.User, error)
	provisionFn func(ctx context.Context, password string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, confirm string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, confirm)
}

func (s *stubAuthService) ProvisionAdmin(ctx context.Context, password string) (*domain.User, error) {
	return s.provisionFn(ctx, password)
}

type stubSessionManager struct {
	loginFn   func(ctx context.Context, username, password string) (string, *domain.Session, error)
	loggedOut []string
}

func (s *stubSessionManager) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubSessionManager) Logout(_ context.Context, token string) {
	s.loggedOut = append(s.loggedOut, token)
}

func (s *stubSessionManager) Current(context.Context, string) *domain.Session { return nil }

type stubPostService struct {
	createFn func(ctx context.Context, sess *domain.Session, content string) (*domain.Post, error)
	listFn   func(ctx context.Context) ([]*domain.Post, error)
	toggleFn func(ctx context.Context, sess *domain.Session, postID string) (*domain.LikeResult, error)
	deleteFn func(ctx context.Context, sess *domain.Session, postID string) error
}

func (s *stubPostService) CreatePost(ctx context.Context, sess *domain.Session, content string) (*domain.Post, error) {
	return s.createFn(ctx, sess, content)
}

func (s *stubPostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.listFn(ctx)
}

func (s *stubPostService) ToggleLike(ctx context.Context, sess *domain.Session, postID string) (*domain.LikeResult, error) {
	return s.toggleFn(ctx, sess, postID)
}

func (s *stubPostService) DeletePost(ctx context.Context, sess *domain.Session, postID string) error {
	return s.deleteFn(ctx, sess, postID)
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := views.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.Validator = NewValidator()
	return e
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func testCookie() CookieConfig {
	return CookieConfig{Name: "feed_session", TTL: time.Hour}
}

func newMetrics() *metrics.Metrics { return metrics.Nop() }

func aliceSession() *domain.Session {
	return &domain.Session{ID: "s-alice", UserID: "alice", Roles: domain.NewRoleSet(domain.RoleUser)}
}
