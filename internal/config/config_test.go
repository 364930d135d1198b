package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"ENV", "SERVER_PORT", "STORE_DRIVER", "MONGODB_URI", "DATABASE_URL", "REDIS_URI",
	"PROFILE_CACHE_TTL", "JWT_SECRET", "JWT_EXPIRATION", "ALLOWED_ORIGINS",
	"COOKIE_SAMESITE", "GUARD_VERIFY_USER", "LOG_FORMAT", "LOG_LEVEL",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
	assert.True(t, cfg.GuardVerifyUser)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("JWT_EXPIRATION", "24h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("COOKIE_SAMESITE", "none")
	t.Setenv("GUARD_VERIFY_USER", "false")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, http.SameSiteNoneMode, cfg.CookieSameSite)
	assert.False(t, cfg.GuardVerifyUser)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"production without secret": {"ENV": "production"},
		"bad driver":                {"STORE_DRIVER": "sqlite"},
		"bad duration":              {"JWT_EXPIRATION": "thirty days"},
		"negative duration":         {"JWT_EXPIRATION": "-1h"},
		"bad samesite":              {"COOKIE_SAMESITE": "sometimes"},
		"bad bool":                  {"GUARD_VERIFY_USER": "maybe"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SERVER_PORT")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9100\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))

	assert.NoError(t, err)
}

func TestMongoDatabaseName(t *testing.T) {
	name, err := MongoDatabaseName("mongodb://localhost:27017/shop?retryWrites=true")
	require.NoError(t, err)
	assert.Equal(t, "shop", name)

	name, err = MongoDatabaseName("mongodb://localhost:27017")
	require.NoError(t, err)
	assert.Equal(t, DefaultMongoDatabase, name)

	_, err = MongoDatabaseName("http://nope")
	assert.Error(t, err)
}

func TestAutoMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, AutoMigrate(context.Background(), mock, discardLogger()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoMigrate_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

	err = AutoMigrate(context.Background(), mock, discardLogger())
	assert.ErrorContains(t, err, "permission denied")
}

func TestConnectDB_GivesUpAfterRetries(t *testing.T) {
	attempts, interval := connectAttempts, connectRetryInterval
	connectAttempts, connectRetryInterval = 2, time.Millisecond
	t.Cleanup(func() { connectAttempts, connectRetryInterval = attempts, interval })

	_, err := ConnectDB(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestConnectDB_BadDSN(t *testing.T) {
	_, err := ConnectDB(context.Background(), "postgres://%zz", discardLogger())

	assert.ErrorContains(t, err, "parse DATABASE_URL")
}
