package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"peysphotos/api/internal/cache"
	"peysphotos/api/internal/config"
	"peysphotos/api/internal/database"
	"peysphotos/api/internal/handlers"
	"peysphotos/api/internal/jobs"
	"peysphotos/api/internal/log"
	"peysphotos/api/internal/repository"
	"peysphotos/api/internal/server"
	"peysphotos/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration invalid")
	}

	ctx := context.Background()

	db, err := database.NewGorm(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	scheduler := jobs.NewScheduler(redisClient, cfg.Jobs, logger)

	handlerSet := handlers.NewHandlerSet(logger, db, redisClient, objectStore, scheduler, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	if cfg.Jobs.Enabled {
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}

		mediaRepo := repository.NewMediaRepository(db)
		categoryRepo := repository.NewCategoryRepository(db)
		reconciler := jobs.NewReconciler(mediaRepo, categoryRepo, objectStore, cfg.Storage, logger)
		consumer := jobs.NewConsumer(redisClient, cfg.Jobs, reconciler, logger)
		go func() {
			if err := consumer.Start(jobCtx); err != nil && jobCtx.Err() == nil {
				logger.Error().Err(err).Msg("job consumer stopped")
			}
		}()
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, stopJobs, db, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	stopJobs context.CancelFunc,
	db *gorm.DB,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	stopJobs()
	if scheduler != nil {
		scheduler.Stop()
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
