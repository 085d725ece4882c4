package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/api/metrics"
	"github.com/minifeed/feed-service/internal/api/middleware"
	"github.com/minifeed/feed-service/internal/api/views"
	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

const genericFailure = "something went wrong, please try again"

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionManager
	cookie   CookieConfig
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewAuthHandler(
	auth ports.AuthService,
	sessions ports.SessionManager,
	cookie CookieConfig,
	m *metrics.Metrics,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie, metrics: m, log: log}
}

// SignupPage handles GET /signup.
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, views.PageSignup, pageData(c))
}

// Signup handles POST /signup. Success sends the browser to the login form;
// no session is opened.
func (h *AuthHandler) Signup(c echo.Context) error {
	var form signupForm
	if err := c.Bind(&form); err != nil {
		return h.signupFailed(c, http.StatusBadRequest, form.Username, "invalid form submission", "invalid")
	}
	if err := c.Validate(&form); err != nil {
		return h.signupFailed(c, http.StatusBadRequest, form.Username, err.Error(), "invalid")
	}

	_, err := h.auth.Register(c.Request().Context(), form.Username, form.Password, form.ConfirmPassword)
	var verr *domain.ValidationError
	switch {
	case err == nil:
		h.metrics.SignupsTotal.WithLabelValues("created").Inc()
		return c.Redirect(http.StatusSeeOther, "/login")
	case errors.As(err, &verr):
		return h.signupFailed(c, http.StatusBadRequest, form.Username, verr.Message, "invalid")
	case errors.Is(err, domain.ErrUserExists):
		return h.signupFailed(c, http.StatusConflict, form.Username, "that username is already taken", "conflict")
	default:
		h.log.Error().Err(err).Msg("signup failed")
		return h.signupFailed(c, http.StatusInternalServerError, form.Username, genericFailure, "error")
	}
}

func (h *AuthHandler) signupFailed(c echo.Context, status int, username, msg, result string) error {
	h.metrics.SignupsTotal.WithLabelValues(result).Inc()
	data := pageData(c)
	data.Username = username
	data.Error = msg
	return c.Render(status, views.PageSignup, data)
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, views.PageLogin, pageData(c))
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, form.Username, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.loginFailed(c, http.StatusBadRequest, form.Username, err.Error())
	}

	token, _, err := h.sessions.Login(c.Request().Context(), form.Username, form.Password)
	switch {
	case err == nil:
		h.metrics.LoginsTotal.WithLabelValues("success").Inc()
		c.SetCookie(h.cookie.issue(token))
		return c.Redirect(http.StatusSeeOther, "/")
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return h.loginFailed(c, http.StatusUnauthorized, form.Username, "invalid username or password")
	default:
		h.metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Msg("login failed")
		return h.loginFailed(c, http.StatusInternalServerError, form.Username, genericFailure)
	}
}

func (h *AuthHandler) loginFailed(c echo.Context, status int, username, msg string) error {
	data := pageData(c)
	data.Username = username
	data.Error = msg
	return c.Render(status, views.PageLogin, data)
}

// Logout handles GET /logout. It works for anonymous visitors too.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		h.sessions.Logout(c.Request().Context(), cookie.Value)
	}
	c.SetCookie(h.cookie.clear())
	return c.Redirect(http.StatusSeeOther, "/login")
}

// pageData seeds the page model with the current viewer.
func pageData(c echo.Context) views.PageData {
	var data views.PageData
	if sess := middleware.CurrentSession(c); sess != nil {
		data.User = sess.UserID
	}
	return data
}
