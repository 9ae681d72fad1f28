package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Amadorfl72/mentorhub/config"
	"github.com/Amadorfl72/mentorhub/internal/db"
	"github.com/Amadorfl72/mentorhub/internal/handlers"
	"github.com/Amadorfl72/mentorhub/internal/mailer"
	"github.com/Amadorfl72/mentorhub/internal/services"
	"github.com/Amadorfl72/mentorhub/internal/storage"
	"github.com/Amadorfl72/mentorhub/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	log        *zap.Logger
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	provider, err := mailer.NewResendClient(cfg.Mail)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	mail := mailer.New(provider)

	avatars, err := newAvatarStore(ctx, cfg, log)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	sessionRepo := store.NewSessionRepository(dbConn)
	feedbackRepo := store.NewFeedbackRepository(dbConn)
	statsRepo := store.NewStatsRepository(dbConn)

	userService := services.NewUserService(userRepo)
	sessionService := services.NewSessionService(sessionRepo, userRepo, mail, log, cfg.FrontendURL)
	feedbackService := services.NewFeedbackService(feedbackRepo)
	statsService := services.NewStatsService(statsRepo)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, avatars, cfg.Google, jwtSecret, log)
	})
	router.Route("/sessions", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.SessionRouter(r, sessionService)
	})
	router.Route("/users", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.UserRouter(r, userService, avatars)
	})
	router.Route("/feedback", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.FeedbackRouter(r, feedbackService)
	})
	router.Route("/stats", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.StatsRouter(r, statsService)
	})
	router.Route("/emails", func(r chi.Router) {
		r.Use(authMiddleware)
		handlers.EmailRouter(r, mail, log)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		log:        log,
	}, nil
}

// newAvatarStore builds the avatar cache for the configured backend.
// Returns nil when caching is disabled.
func newAvatarStore(ctx context.Context, cfg config.Config, log *zap.Logger) (*storage.AvatarStore, error) {
	var backend storage.ObjectStorage

	switch cfg.Storage.Backend {
	case "":
		log.Info("avatar caching disabled")
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	avatars := storage.NewAvatarStore(backend)
	if err := avatars.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return avatars, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	_ = s.log.Sync()
	return s.httpServer.Close()
}
