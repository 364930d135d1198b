package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// Retry policy for the initial store connection.
var (
	connectAttempts      uint64 = 5
	connectRetryInterval        = 5 * time.Second
)

// connectBackoff is a constant backoff capped at connectAttempts tries.
func connectBackoff() retry.Backoff {
	return retry.WithMaxRetries(connectAttempts-1, retry.NewConstant(connectRetryInterval))
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	// A malformed DSN will never succeed.
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	var pool *pgxpool.Pool
	attempt := 0
	err = retry.Do(ctx, connectBackoff(), func(ctx context.Context) error {
		attempt++
		p, err := pgxpool.NewWithConfig(ctx, poolCfg.Copy())
		if err == nil {
			// Try to ping the database
			if err = p.Ping(ctx); err == nil {
				pool = p
				return nil
			}
			p.Close()
		}
		logger.Warn("failed to connect to database",
			"attempt", attempt, "max_attempts", connectAttempts, "retry_in", connectRetryInterval, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", attempt, err)
	}
	logger.Info("connected to PostgreSQL")
	return pool, nil
}

// Execer is the part of a pool AutoMigrate needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// usersSchema creates the users table. Phone uniqueness is enforced here;
// the repository maps violations to a duplicate error.
const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT users_phone_unique UNIQUE (phone)
	);

    -- Function to update updated_at column
    CREATE OR REPLACE FUNCTION update_updated_at_column()
    RETURNS TRIGGER AS $$
    BEGIN
       NEW.updated_at = NOW();
       RETURN NEW;
    END;
    $$ language 'plpgsql';

    DO $$
    BEGIN
        IF NOT EXISTS (
            SELECT 1
            FROM pg_trigger
            WHERE tgname = 'set_users_updated_at' AND tgrelid = 'users'::regclass
        ) THEN
            CREATE TRIGGER set_users_updated_at
            BEFORE UPDATE ON users
            FOR EACH ROW
            EXECUTE FUNCTION update_updated_at_column();
        END IF;
    END
    $$;
`

// AutoMigrate creates tables if they don't exist
func AutoMigrate(ctx context.Context, db Execer, logger *slog.Logger) error {
	if _, err := db.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}
	logger.Info("AutoMigrate applied successfully")
	return nil
}
