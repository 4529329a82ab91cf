package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/oscarper3z/MULTI-APIS/internal/app/migrate"
	httpx "github.com/oscarper3z/MULTI-APIS/internal/http"
	"github.com/oscarper3z/MULTI-APIS/internal/repository/postgres"
	"github.com/oscarper3z/MULTI-APIS/internal/service/product"
	"github.com/oscarper3z/MULTI-APIS/pkg/config"
	"github.com/oscarper3z/MULTI-APIS/pkg/logger"
	"github.com/oscarper3z/MULTI-APIS/pkg/usersapi"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadProductsConfig()
	log := logger.New(cfg.ServiceName, slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	usersClient, err := usersapi.New(cfg.UsersAPIURL, usersapi.WithTimeout(cfg.UsersAPITimeout))
	if err != nil {
		log.Error("invalid users api url", "error", err)
		os.Exit(1)
	}

	repo := postgres.New(pool)
	productsSvc := product.New(repo, usersClient, log)

	limiter := httpx.NewMemoryRateLimiter()
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable", "error", err)
		} else {
			limiter = redisLimiter
		}
	}

	router := httpx.NewProductsRouter(log, productsSvc, limiter, cfg.ServiceName, repo.Health)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cors.AllowAll().Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("products api starting", "addr", cfg.Addr, "users_api", cfg.UsersAPIURL)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("products api stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
