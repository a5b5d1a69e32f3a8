package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/account-api/internal/config"
	"github.com/msomdec/account-api/internal/handler"
	"github.com/msomdec/account-api/internal/mailer"
	"github.com/msomdec/account-api/internal/repository/sqlite"
	"github.com/msomdec/account-api/internal/service"
	"github.com/msomdec/account-api/internal/storage/s3media"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	media, err := s3media.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to configure media store", "error", err)
		os.Exit(1)
	}

	smtp, err := mailer.New(cfg)
	if err != nil {
		slog.Error("failed to configure mailer", "error", err)
		os.Exit(1)
	}

	tokens := service.NewTokenIssuer(cfg)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	users := db.Users()
	authService := service.NewAuthService(users, tokens, hasher, media, smtp, cfg.AppBaseURL)
	accountService := service.NewAccountService(users, media)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, accountService, handler.CookieOptions{
		Secure:        cfg.CookieSecure,
		AccessMaxAge:  cfg.AccessTokenTTL,
		RefreshMaxAge: cfg.RefreshTokenTTL,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
