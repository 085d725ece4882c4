// Package db selects and opens the persistence backend named by the config.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/minifeed/feed-service/internal/core/ports"
	"github.com/minifeed/feed-service/internal/infrastructure/config"
	"github.com/minifeed/feed-service/internal/infrastructure/db/memory"
	mongodb "github.com/minifeed/feed-service/internal/infrastructure/db/mongo"
	redisdb "github.com/minifeed/feed-service/internal/infrastructure/db/redis"
)

// Stores bundles the repositories the services need. Checkers are named
// readiness probes; Close releases backend connections.
type Stores struct {
	Users    ports.UserRepository
	Posts    ports.PostRepository
	Sessions ports.SessionStore
	Checkers map[string]func(context.Context) error
	Close    func(context.Context) error
}

// Open builds the stores for cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory stores; data is lost on restart")
		return OpenMemory(), nil
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

// OpenMemory returns fresh in-process stores.
func OpenMemory() *Stores {
	return &Stores{
		Users:    memory.NewUserRepository(),
		Posts:    memory.NewPostRepository(),
		Sessions: memory.NewSessionStore(),
		Checkers: map[string]func(context.Context) error{},
		Close:    func(context.Context) error { return nil },
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	client, database, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	users := mongodb.NewUserRepository(database)
	posts := mongodb.NewPostRepository(database)
	if err := mongodb.EnsureIndexes(ctx, users, posts); err != nil {
		_ = rdb.Close()
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	return &Stores{
		Users:    users,
		Posts:    posts,
		Sessions: redisdb.NewSessionStore(rdb),
		Checkers: map[string]func(context.Context) error{
			"mongodb": mongodb.Ping(database),
			"redis":   redisdb.Ping(rdb),
		},
		Close: func(ctx context.Context) error {
			rerr := rdb.Close()
			if err := client.Disconnect(ctx); err != nil {
				return fmt.Errorf("mongo disconnect: %w", err)
			}
			if rerr != nil {
				return fmt.Errorf("redis close: %w", rerr)
			}
			return nil
		},
	}, nil
}
