package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const devJWTSecret = "storefront-dev-secret"

// Config holds the server settings.
type Config struct {
	Env             string
	Port            string
	StoreDriver     string
	MongoURI        string
	DatabaseURL     string
	RedisURI        string
	ProfileCacheTTL time.Duration
	JWTSecret       string
	JWTExpiration   time.Duration
	AllowedOrigins  []string
	CookieSameSite  http.SameSite
	GuardVerifyUser bool
	LogFormat       string
	LogLevel        string
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads envFile (if it exists) into the environment and builds a
// Config from it. An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("SERVER_PORT", "8000"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017/storefront"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/storefront?sslmode=disable"),
		RedisURI:    os.Getenv("REDIS_URI"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.ProfileCacheTTL, err = getDuration("PROFILE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.JWTExpiration, err = getDuration("JWT_EXPIRATION", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CookieSameSite, err = parseSameSite(getEnv("COOKIE_SAMESITE", "lax")); err != nil {
		return nil, err
	}
	if cfg.GuardVerifyUser, err = strconv.ParseBool(getEnv("GUARD_VERIFY_USER", "true")); err != nil {
		return nil, fmt.Errorf("GUARD_VERIFY_USER: %w", err)
	}
	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	defaultFormat := "text"
	if cfg.IsProduction() {
		defaultFormat = "json"
	}
	cfg.LogFormat = getEnv("LOG_FORMAT", defaultFormat)

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, cfg.Validate()
}

// Validate checks values that flags may have overridden.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want mongo, postgres or memory)", c.StoreDriver)
	}
	if c.Port == "" {
		return errors.New("SERVER_PORT must not be empty")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(v) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("COOKIE_SAMESITE: unknown mode %q", v)
	}
}
