package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/microblog/internal/config"
	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/handler"
	"github.com/msomdec/microblog/internal/repository/postgres"
	"github.com/msomdec/microblog/internal/repository/sqlite"
	"github.com/msomdec/microblog/internal/service"
)

// backend is what main needs from a storage implementation.
type backend interface {
	domain.Database
	domain.Store
}

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	slog.SetDefault(newLogger(cfg.LogFormat, level, os.Stdout, os.Stderr))

	jwtSecret, isDefault := cfg.Secret()
	if isDefault {
		slog.Warn("JWT_SECRET is not set, using the built-in development secret")
	}

	db, err := openBackend(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokenService := service.NewTokenService(jwtSecret, cfg.JWTTTL)
	userService := service.NewUserService(db, hasher)
	streamService := service.NewStreamService(db)
	postService := service.NewPostService(db)
	authService := service.NewAuthService(userService, db, hasher, tokenService)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, userService, streamService, postService, tokenService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Chain(mux),
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

// newLogger builds the process logger. "multi" writes human readable text
// to stdout and JSON to stderr.
func newLogger(format string, level slog.Level, stdout, stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(stdout, opts))
	case "json":
		return slog.New(slog.NewJSONHandler(stderr, opts))
	default:
		return slog.New(slog.NewMultiHandler(
			slog.NewTextHandler(stdout, opts),
			slog.NewJSONHandler(stderr, opts),
		))
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (backend, error) {
	if cfg.DatabaseDriver == config.DriverPostgres {
		return postgres.New(ctx, cfg.DatabaseDSN)
	}
	return sqlite.New(cfg.DatabaseDSN)
}
