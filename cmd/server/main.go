package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oticahub/lens-engine/internal/cache"
	"github.com/oticahub/lens-engine/internal/calibration"
	"github.com/oticahub/lens-engine/internal/config"
	"github.com/oticahub/lens-engine/internal/handler"
	"github.com/oticahub/lens-engine/internal/logger"
	"github.com/oticahub/lens-engine/internal/matching"
	"github.com/oticahub/lens-engine/internal/repository"
	"github.com/oticahub/lens-engine/internal/router"
	"github.com/oticahub/lens-engine/internal/service"
	"github.com/oticahub/lens-engine/seeds"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("failed to parse database config %v", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatalf("failed to connect to database %v", err)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)
	if err := waitForDB(ctx, repo); err != nil {
		logger.Fatalf("database not ready: %v", err)
	}
	logger.Info("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := runMigration(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			logger.Fatalf("failed to migrate down %v", err)
		}
		logger.Info("migrations dropped")
		return
	}

	if err := runMigration(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		logger.Fatalf("failed to migrate up %v", err)
	}

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool); err != nil {
		logger.Fatalf("failed to check seed %v", err)
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatalf("failed to parse redis url %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	recCache := cache.NewCache(redisClient, cfg.CacheTTL)
	if err := recCache.Ping(ctx); err != nil {
		// Recommendations still work without redis, only uncached.
		logger.WithError(err).Warn("redis unavailable at startup")
	} else {
		logger.Info("connected to Redis")
	}

	// ------------ Engines ---------------
	policy := matching.DefaultPolicy()
	if cfg.ScoringPolicyFile != "" {
		policy, err = matching.LoadPolicy(cfg.ScoringPolicyFile)
		if err != nil {
			logger.Fatalf("failed to load scoring policy %v", err)
		}
		logger.WithField("file", cfg.ScoringPolicyFile).Info("scoring policy loaded")
	}

	svc := service.NewService(
		repo,
		recCache,
		cache.Fingerprint,
		calibration.NewEngine(),
		matching.NewEngine(policy),
		service.Options{
			CatalogLimit:     cfg.CatalogLimit,
			BatchConcurrency: cfg.BatchConcurrency,
		},
	)

	// ---------------- Server --------------------
	h := handler.NewHandler(svc)
	limiter := cache.NewRateLimiter(redisClient, cfg.RateLimitPerMinute, time.Minute)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(h, limiter, cfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{"addr": srv.Addr}).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.WithField("signal", sig.String()).Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func waitForDB(ctx context.Context, repo *repository.Repository) error {
	for i := 0; i < 30; i++ {
		if err := repo.Ping(ctx); err == nil {
			return nil
		}
		logger.WithField("attempt", i+1).Info("waiting for database...")
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logger.WithField("file", path).Info("migration applied")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM stores").Scan(&count); err != nil {
		return fmt.Errorf("check stores count: %w", err)
	}
	if count > 0 {
		logger.WithField("stores", count).Info("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool)
}
