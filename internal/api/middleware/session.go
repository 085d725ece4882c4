package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
)

const sessionContextKey = "session"

// SessionHandlerFunc is a handler that receives the resolved session
// explicitly. The guards below never call it with a nil session.
type SessionHandlerFunc func(c echo.Context, sess *domain.Session) error

// Session resolves the session cookie once per request and stores the
// result in the echo context. Anonymous requests proceed with a nil session.
func Session(sessions ports.SessionManager, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *domain.Session
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				sess = sessions.Current(c.Request().Context(), cookie.Value)
			}
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// CurrentSession returns the session resolved by Session, or nil.
func CurrentSession(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionContextKey).(*domain.Session)
	return sess
}

// RequirePage sends anonymous browsers to the login form.
func RequirePage(h SessionHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := CurrentSession(c)
		if sess == nil {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return h(c, sess)
	}
}

type unauthorizedResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RequireAPI answers anonymous API calls with 401 and a JSON body.
func RequireAPI(h SessionHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := CurrentSession(c)
		if sess == nil {
			return c.JSON(http.StatusUnauthorized, unauthorizedResponse{Success: false, Error: "unauthorized"})
		}
		return h(c, sess)
	}
}
