package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/database"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
	"github.com/taiwoajasa245/quran-reader/internal/server"
	"github.com/taiwoajasa245/quran-reader/pkg/config"
	"github.com/taiwoajasa245/quran-reader/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	logger.Setup(cfg.LogLevel, cfg.AppEnv != "production")

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	cancel()

	var (
		source quran.Source = quran.NewClient(cfg.QuranAPIURL, cfg.QuranAPITimeout)
		opts   []server.Option
		rdb    *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		cached := quran.NewCachedSource(source, rdb, cfg.CacheTTL)
		source = cached

		if err := quran.ValidateSchedule(cfg.CacheWarmSchedule); err != nil {
			log.Warn().Err(err).Str("schedule", cfg.CacheWarmSchedule).Msg("invalid cache warm schedule, warmer disabled")
		} else {
			opts = append(opts, server.WithWarmer(quran.NewWarmer(cached, cfg.CacheWarmSchedule, 4)))
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("content cache enabled")
	}

	srv := server.NewServer(db, cfg, source, opts...)
	httpServer := srv.HTTPServer()

	if err := srv.StartBackgroundJobs(); err != nil {
		log.Error().Err(err).Msg("failed to start background jobs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	srv.StopBackgroundJobs()

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
	log.Info().Msg("server exited")
}
