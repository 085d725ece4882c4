package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/minifeed/feed-service/docs"
	"github.com/minifeed/feed-service/internal/api/handler"
	"github.com/minifeed/feed-service/internal/api/metrics"
	"github.com/minifeed/feed-service/internal/api/middleware"
	"github.com/minifeed/feed-service/internal/api/views"
	"github.com/minifeed/feed-service/internal/core/ports"
)

// Deps are the services and settings the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Sessions ports.SessionManager
	Posts    ports.PostService
	// Checkers are the readiness probes, keyed by backend name.
	Checkers map[string]func(context.Context) error
	Cookie   handler.CookieConfig
	// Registry receives HTTP and domain metrics. A fresh one is used when nil.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := metrics.New(reg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "feed",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Session(d.Sessions, d.Cookie.Name))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.Cookie, m, d.Log)
	postHandler := handler.NewPostHandler(d.Posts, m, d.Log)
	healthHandler := handler.NewHealthHandler(d.Checkers, d.Log)

	// --- Account pages ---
	e.GET("/signup", authHandler.SignupPage)
	e.POST("/signup", authHandler.Signup)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// --- Feed pages (session required) ---
	e.GET("/", middleware.RequirePage(postHandler.Feed))
	e.GET("/newpost", middleware.RequirePage(postHandler.NewPostPage))
	e.POST("/createPost", middleware.RequirePage(postHandler.CreatePost))
	e.POST("/deletePost", middleware.RequirePage(postHandler.DeletePost))

	// --- JSON API ---
	e.POST("/likePost", middleware.RequireAPI(postHandler.LikePost))

	// --- Ops ---
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
