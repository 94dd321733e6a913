package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hongminglow/nebula-be/internal/auth"
	"github.com/hongminglow/nebula-be/internal/config"
	"github.com/hongminglow/nebula-be/internal/http/handlers"
	"github.com/hongminglow/nebula-be/internal/media"
	"github.com/hongminglow/nebula-be/internal/metrics"
	"github.com/hongminglow/nebula-be/internal/middleware"
	"github.com/hongminglow/nebula-be/internal/seed"
	"github.com/hongminglow/nebula-be/internal/server"
	"github.com/hongminglow/nebula-be/internal/storage"
	"github.com/hongminglow/nebula-be/internal/storage/memory"
	"github.com/hongminglow/nebula-be/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found; relying on existing environment")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAlgorithm)
	if err != nil {
		return err
	}

	if cfg.SeedDemo {
		if err := seed.Run(ctx, store, hasher, logger); err != nil {
			return err
		}
	}

	var (
		guard   auth.ResetGuard    = auth.NewMemoryResetGuard()
		limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.AuthRateLimitPerMin, time.Minute)
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		guard = auth.NewRedisResetGuard(client)
		limiter = middleware.NewRedisLimiter(client, cfg.AuthRateLimitPerMin, time.Minute)
		logger.Info("redis connected", "addr", cfg.RedisAddr)
	}

	var avatars handlers.AvatarUploader
	if cfg.S3.Enabled() {
		avatarStore, err := media.NewAvatarStore(ctx, cfg.S3, cfg.AvatarMaxBytes)
		if err != nil {
			return err
		}
		avatars = avatarStore
	}

	srv := server.New(cfg, server.Deps{
		Store:   store,
		Hasher:  hasher,
		Tokens:  tokens,
		Guard:   guard,
		Limiter: limiter,
		Avatars: avatars,
		Metrics: metrics.New(),
		Logger:  logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Knowledge Nebula backend listening", "addr", cfg.HTTPAddress(), "data_source", cfg.DataSource)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Warn("graceful shutdown error", "err", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.DataSource == config.DataSourceMemory {
		return memory.New(), nil
	}
	store, err := postgres.New(ctx, cfg.DatabaseURL, postgres.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
