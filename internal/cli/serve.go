package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/minifeed/feed-service/internal/api"
	"github.com/minifeed/feed-service/internal/api/handler"
	"github.com/minifeed/feed-service/internal/core/ports"
	"github.com/minifeed/feed-service/internal/core/service"
	"github.com/minifeed/feed-service/internal/infrastructure/config"
	"github.com/minifeed/feed-service/internal/infrastructure/db"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the feed HTTP server",
		Long: `Starts the feed HTTP server. Usage:

	feed serve

Configuration is read from the environment and an optional .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, hasher, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	stores, err := db.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing stores")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auth := service.NewAuthService(stores.Users, hasher, log)
	if err := seedMemoryAdmin(ctx, cfg, auth, log); err != nil {
		return err
	}

	e, err := api.NewRouter(api.Deps{
		Auth:     auth,
		Sessions: service.NewSessionManager(stores.Users, hasher, stores.Sessions, cfg.Session.Secret, cfg.Session.TTL, log),
		Posts:    service.NewPostService(stores.Posts, log),
		Checkers: stores.Checkers,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.IsProduction(),
			TTL:    cfg.Session.TTL,
		},
		Registry: reg,
		Log:      log,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// seedMemoryAdmin creates the admin account at startup when the stores live
// in memory, since no separate command can reach them.
func seedMemoryAdmin(ctx context.Context, cfg *config.Config, auth ports.AuthService, log zerolog.Logger) error {
	if cfg.StoreDriver != config.DriverMemory {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Warn().Msg("ADMIN_PASSWORD not set; memory store starts without an admin account")
		return nil
	}
	return seedAdmin(ctx, auth, cfg.AdminPassword, log)
}
