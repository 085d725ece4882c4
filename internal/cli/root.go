// Package cli defines the feed command line: the HTTP server and the
// out-of-band admin tooling.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/minifeed/feed-service/internal/infrastructure/config"
	"github.com/minifeed/feed-service/internal/infrastructure/security"
	"github.com/minifeed/feed-service/pkg/logger"
)

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "feed",
		Short:         "minifeed social feed service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newAdminCmd())
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// bootstrap loads the configuration and initialises the logger and hasher
// every subcommand needs.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *security.BcryptHasher, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "feed",
	})

	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return nil, log, nil, fmt.Errorf("password hasher: %w", err)
	}
	return cfg, log, hasher, nil
}
