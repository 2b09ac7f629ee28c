package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/bookmark"
	"github.com/taiwoajasa245/quran-reader/internal/database"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
	"github.com/taiwoajasa245/quran-reader/internal/storage"
	"github.com/taiwoajasa245/quran-reader/pkg/config"
)

type Server struct {
	port    string
	db      database.Service
	cfg     *config.Config
	source  quran.Source
	kv      bookmark.KeyValue
	warmer  *quran.Warmer
	handler http.Handler
	cancel  context.CancelFunc
}

type Option func(*Server)

// WithWarmer schedules w as a background job.
func WithWarmer(w *quran.Warmer) Option {
	return func(s *Server) { s.warmer = w }
}

// WithKeyValue replaces the Postgres bookmark storage.
func WithKeyValue(kv bookmark.KeyValue) Option {
	return func(s *Server) { s.kv = kv }
}

// NewServer constructs the app server with all dependencies injected.
func NewServer(db database.Service, cfg *config.Config, source quran.Source, opts ...Option) *Server {
	stats := db.Health()
	if stats["status"] != "up" {
		log.Error().Str("error", stats["error"]).Msg("database connection failed")
	} else {
		log.Info().Msg("database connection successful")
	}

	s := &Server{
		port:   cfg.Port,
		db:     db,
		cfg:    cfg,
		source: source,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kv == nil {
		s.kv = storage.NewPostgres(db)
	}

	s.handler = s.RegisterRoutes()
	return s
}

// HTTPServer returns the actual *http.Server instance
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// StartBackgroundJobs runs scheduled jobs
func (s *Server) StartBackgroundJobs() error {
	if s.warmer == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if err := s.warmer.Start(ctx); err != nil {
		cancel()
		return err
	}
	return nil
}

func (s *Server) StopBackgroundJobs() {
	if s.cancel == nil {
		return
	}
	s.warmer.Stop()
	s.cancel()
	log.Info().Msg("background jobs stopped gracefully")
}
