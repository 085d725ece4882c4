package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/minifeed/feed-service/internal/core/domain"
	"github.com/minifeed/feed-service/internal/core/ports"
	"github.com/minifeed/feed-service/internal/core/service"
	"github.com/minifeed/feed-service/internal/infrastructure/config"
	"github.com/minifeed/feed-service/internal/infrastructure/db"
)

func newAdminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Administrator account tooling",
	}
	admin.AddCommand(newAdminCreateCmd())
	return admin
}

func newAdminCreateCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creates the admin account",
		Long: `Creates the reserved "admin" account with the user and admin roles.
The password comes from --password or ADMIN_PASSWORD. Running it again
when the account exists only logs a warning. The memory driver is not
supported; serve seeds the admin from ADMIN_PASSWORD in that mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return createAdmin(cmd.Context(), password)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to ADMIN_PASSWORD)")
	return cmd
}

func createAdmin(ctx context.Context, password string) error {
	cfg, log, hasher, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	if cfg.StoreDriver == config.DriverMemory {
		return errors.New("admin create needs a persistent store: with STORE_DRIVER=memory, set ADMIN_PASSWORD and feed serve creates the admin at startup")
	}
	if password == "" {
		password = cfg.AdminPassword
	}
	if password == "" {
		return errors.New("admin password required: pass --password or set ADMIN_PASSWORD")
	}

	stores, err := db.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() { _ = stores.Close(context.Background()) }()

	return seedAdmin(ctx, service.NewAuthService(stores.Users, hasher, log), password, log)
}

// seedAdmin provisions the admin account. An existing account is only
// reported.
func seedAdmin(ctx context.Context, auth ports.AuthService, password string, log zerolog.Logger) error {
	if _, err := auth.ProvisionAdmin(ctx, password); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			log.Warn().Msg("admin account already exists")
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info().Msg("admin account created")
	return nil
}
