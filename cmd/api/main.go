// Package main is the entry point for the channel-prospector API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"channel-prospector/internal/app/service"
	"channel-prospector/internal/cache"
	"channel-prospector/internal/config"
	"channel-prospector/internal/infra/postgres"
	"channel-prospector/internal/infra/postgres/migrations"
	"channel-prospector/internal/infra/provider"
	"channel-prospector/internal/infra/provider/youtube"
	"channel-prospector/internal/infra/redisstore"
	"channel-prospector/internal/job"
	"channel-prospector/internal/logger"
	"channel-prospector/internal/transport/httpserver"
	"channel-prospector/internal/validator"
	"channel-prospector/pkg/locker"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting channel-prospector",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	leadRepo := postgres.NewRepository(db)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Provider client
	yt := youtube.New(
		provider.ClientConfig{
			BaseURL: cfg.YouTube.BaseURL,
			APIKey:  cfg.YouTube.APIKey,
			Timeout: cfg.YouTube.Timeout,
			Retry: provider.RetryConfig{
				MaxAttempts: cfg.YouTube.Retry.MaxAttempts,
				WaitTime:    cfg.YouTube.Retry.WaitTime,
				MaxWaitTime: cfg.YouTube.Retry.MaxWaitTime,
			},
			CB: provider.CBConfig{
				MaxRequests:  cfg.YouTube.CB.MaxRequests,
				Interval:     cfg.YouTube.CB.Interval,
				Timeout:      cfg.YouTube.CB.Timeout,
				FailureRatio: cfg.YouTube.CB.FailureRatio,
			},
		},
		log.Logger,
	)

	// Analysis cache with durable Redis storage
	blobStore := redisstore.NewStore(redisClient, log.Logger, cfg.Redis.KeyPrefix)
	analysisCache := cache.New(
		cache.Config{
			TTL:             cfg.Cache.TTL,
			Capacity:        cfg.Cache.Capacity,
			CleanupInterval: cfg.Cache.CleanupInterval,
			PersistDebounce: cfg.Cache.PersistDebounce,
			StoreKey:        cfg.Cache.StoreKey,
		},
		blobStore,
		nil, // real timers
		nil, // wall clock
		log.Logger,
	)
	analysisCache.Start()
	defer analysisCache.Stop()

	// Services
	discoveryCfg := service.DiscoveryConfig{
		DefaultRubric:       cfg.Discovery.DefaultRubric,
		HashEstimates:       cfg.Discovery.HashEstimates,
		MaxUniqueCandidates: cfg.Discovery.MaxUniqueCandidates,
		MaxQualifying:       cfg.Discovery.MaxQualifying,
		PageSize:            cfg.Discovery.PageSize,
		UploadSample:        cfg.Discovery.UploadSample,
	}
	discoverySvc := service.NewDiscoveryService(discoveryCfg, yt, analysisCache, leadRepo, log.Logger)
	analysisSvc := service.NewAnalysisService(discoveryCfg, yt, analysisCache, leadRepo, log.Logger)

	distLocker := locker.NewRedisLocker(redisClient, log.Logger)
	v := validator.New()

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
			Debug:     cfg.App.Debug,
		},
		discoverySvc,
		analysisSvc,
		leadRepo,
		db,
		redisClient,
		v,
		log.Logger,
	)

	// Background lead refresh with distributed locking
	var refresher *job.RefreshScheduler
	if cfg.Refresh.Enabled {
		refresher = job.NewRefreshScheduler(
			analysisSvc,
			job.RefreshConfig{
				Interval:  cfg.Refresh.Interval,
				Timeout:   cfg.Refresh.Timeout,
				OnStartup: cfg.Refresh.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		refresher.Start(cfg.Refresh.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if refresher != nil {
			refresher.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
