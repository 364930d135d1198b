package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/handler"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/server"
	"storefront/internal/service"
	"storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func runServe(cmd *cobra.Command, flags *serverFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	logger := logging.Setup(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Credential store ---
	userRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Services ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)
	authService := service.NewAuthService(userRepo, utils.BcryptHasher{}, jwtUtil, logger, cfg.GuardVerifyUser)

	router := server.NewRouter(server.Deps{
		AuthService:    authService,
		Store:          userRepo,
		StoreName:      cfg.StoreDriver,
		Metrics:        metrics.New(),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Cookie: handler.CookieOptions{
			Secure:   cfg.IsProduction(),
			SameSite: cfg.CookieSameSite,
			MaxAge:   jwtUtil.Expiration(),
		},
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// --- Graceful Shutdown ---
	select {
	case err := <-serveErr:
		if err != nil {
			return oops.Code("LISTEN_FAILED").With("port", cfg.Port).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}

	logger.Info("server exiting")
	return nil
}
