package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidtube/video-platform/internal/api"
	"github.com/vidtube/video-platform/internal/core/service"
	"github.com/vidtube/video-platform/internal/infrastructure/config"
	mongodb "github.com/vidtube/video-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/vidtube/video-platform/internal/infrastructure/db/redis"
	"github.com/vidtube/video-platform/internal/infrastructure/queue"
	s3store "github.com/vidtube/video-platform/internal/infrastructure/storage/s3"
	"github.com/vidtube/video-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; this is the one place stderr is acceptable.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	// The unique indexes are what make registration's insert an atomic
	// uniqueness check; refuse to serve without them.
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	assets, err := s3store.New(ctx, s3store.Config{
		Region:        cfg.Assets.Region,
		Bucket:        cfg.Assets.Bucket,
		Endpoint:      cfg.Assets.Endpoint,
		AccessKey:     cfg.Assets.AccessKey,
		SecretKey:     cfg.Assets.SecretKey,
		PublicBaseURL: cfg.Assets.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("asset store setup failed")
	}

	eventRepo := mongodb.NewEventRepository(db)
	eventService := service.NewEventService(eventRepo, log)
	dispatcher := queue.NewDispatcher(0, eventService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, assets, dispatcher, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
