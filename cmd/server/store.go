package main

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/config"
	"storefront/internal/repository"

	"github.com/samber/oops"
)

// openStore connects the configured credential store, applies its schema,
// and wraps it with the Redis profile cache when REDIS_URI is set. The
// returned cleanup closes every handle it opened.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.UserRepository, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var repo repository.UserRepository
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := config.ConnectMongo(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
		closers = append(closers, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		})
		if err := config.EnsureMongoIndexes(ctx, db, logger); err != nil {
			cleanup()
			return nil, nil, oops.Code("MIGRATION_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
		repo = repository.NewMongoUserRepository(db)

	case config.DriverPostgres:
		pool, err := config.ConnectDB(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
		closers = append(closers, pool.Close)
		if err := config.AutoMigrate(ctx, pool, logger); err != nil {
			cleanup()
			return nil, nil, oops.Code("MIGRATION_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
		}
		repo = repository.NewPostgresUserRepository(pool)

	default:
		logger.Warn("using in-memory credential store, accounts are lost on restart")
		repo = repository.NewMemoryUserRepository()
	}

	if cfg.RedisURI != "" {
		rdb, err := config.ConnectRedis(ctx, cfg.RedisURI, logger)
		if err != nil {
			cleanup()
			return nil, nil, oops.Code("CACHE_CONNECT_FAILED").Wrap(err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		repo = repository.NewCachedUserRepository(repo, repository.NewRedisProfileCache(rdb, cfg.ProfileCacheTTL), logger)
	}

	return repo, cleanup, nil
}
