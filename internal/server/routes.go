package server

import (
	stdlog "log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/auth"
	"github.com/taiwoajasa245/quran-reader/internal/reader"
	"github.com/taiwoajasa245/quran-reader/pkg/response"
)

const basePath = "/quran-reader/v1"

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  stdlog.New(log.Logger, "", 0),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.ServerIsWorking)
	r.Get("/health", s.HealthHandler)

	r.Route(basePath, func(r chi.Router) {
		r.Get("/", s.ServerIsWorking)
		s.loadAuthRoutes(r)
		s.loadReaderRoutes(r)
	})

	return r
}

func (s *Server) ServerIsWorking(w http.ResponseWriter, r *http.Request) {
	resp := make(map[string]string)
	resp["message"] = "Welcome to Quran Reader api"
	response.Success(w, resp, "Success")
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.db.Health()
	if stats["status"] != "up" {
		response.Error(w, http.StatusServiceUnavailable, "Database unavailable", stats)
		return
	}
	response.Success(w, stats, "Success")
}

func (s *Server) loadAuthRoutes(router chi.Router) {
	authRepo := auth.NewRepository(s.db)
	authService := auth.NewAuthService(authRepo, s.cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	router.Post("/auth/register", authHandler.RegisterHandler)
	router.Post("/auth/login", authHandler.LoginHandler)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.cfg.JWTSecret))
		r.Get("/auth/me", authHandler.MeHandler)
		r.Patch("/auth/me", authHandler.UpdateProfileHandler)
	})
}

func (s *Server) loadReaderRoutes(router chi.Router) {
	readerService := reader.NewReaderService(s.source, s.kv)
	readerHandler := reader.NewReaderHandler(readerService)

	router.Get("/chapters", readerHandler.ListChaptersHandler)
	router.Get("/chapters/{number}", readerHandler.GetChapterHandler)
	router.Get("/chapters/{number}/verses/{verse}", readerHandler.GetVerseHandler)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.cfg.JWTSecret))
		r.Get("/bookmarks/chapters", readerHandler.ListChapterBookmarksHandler)
		r.Patch("/bookmarks/chapters/toggle", readerHandler.ToggleChapterBookmarkHandler)
		r.Delete("/bookmarks/chapters/{index}", readerHandler.RemoveChapterBookmarkHandler)
		r.Get("/bookmarks/verses", readerHandler.ListVerseBookmarksHandler)
		r.Patch("/bookmarks/verses/toggle", readerHandler.ToggleVerseBookmarkHandler)
		r.Delete("/bookmarks/verses/{index}", readerHandler.RemoveVerseBookmarkHandler)
	})
}
