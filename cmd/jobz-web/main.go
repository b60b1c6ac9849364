package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	_ "github.com/bahath/jobz-web/docs"
	"github.com/bahath/jobz-web/internal/api"
	"github.com/bahath/jobz-web/internal/api/metrics"
	"github.com/bahath/jobz-web/internal/api/middleware"
	"github.com/bahath/jobz-web/internal/core/ports"
	"github.com/bahath/jobz-web/internal/core/service"
	"github.com/bahath/jobz-web/internal/infrastructure/authapi"
	"github.com/bahath/jobz-web/internal/infrastructure/db/memory"
	mongostore "github.com/bahath/jobz-web/internal/infrastructure/db/mongo"
	redisstore "github.com/bahath/jobz-web/internal/infrastructure/db/redis"
	"github.com/bahath/jobz-web/internal/infrastructure/http/handlers"
	"github.com/bahath/jobz-web/internal/infrastructure/queue"
	"github.com/bahath/jobz-web/internal/pkg/config"
	"github.com/bahath/jobz-web/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "jobz-web",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("jobz-web stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, readiness, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	dispatcher := queue.NewDispatcher(cfg.Session.RestoreWorkers, cfg.Session.RestoreTimeout, log)
	dispatcher.Start(ctx)

	client := authapi.NewClient(authapi.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
	registry, err := service.NewSessionRegistry(cfg.Session.CacheSize, client, storage, dispatcher, log,
		func(n int) { metrics.SessionsCached.Set(float64(n)) })
	if err != nil {
		return err
	}

	router, err := api.NewRouter(api.Dependencies{
		Sessions:   registry,
		Cookie:     middleware.BrowserConfig{Secret: cfg.Cookie.Secret, Secure: cfg.Cookie.Secure, MaxAge: cfg.Storage.TTL},
		APIBaseURL: cfg.API.BaseURL,
		Readiness:  readiness,
		Log:        log,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Driver).Msg("jobz-web listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("jobz-web stopped")
	return nil
}

// openStorage connects the configured storage driver and returns its
// factory, its readiness probes and a close function.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.StorageFactory, map[string]handlers.Pinger, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return redisstore.NewStorageFactory(rdb, cfg.Storage.TTL),
			map[string]handlers.Pinger{"redis": redisstore.Pinger{Client: rdb}},
			closer(log, "redis", rdb),
			nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		repo := mongostore.NewStorageRepository(db)
		if err := repo.EnsureIndexes(ctx, cfg.Storage.TTL); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return repo.Factory(),
			map[string]handlers.Pinger{"mongodb": mongostore.Pinger{Client: client}},
			func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Warn().Err(err).Msg("closing mongodb")
				}
			},
			nil

	default:
		log.Warn().Msg("using in-memory session storage; sessions are lost on restart")
		mem := memory.NewStorage()
		return mem.Factory(), map[string]handlers.Pinger{"memory": mem}, func() {}, nil
	}
}

func closer(log zerolog.Logger, name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("close failed")
		}
	}
}
