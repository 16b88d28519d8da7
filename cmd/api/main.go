package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ripplehq/ripple-api/internal/config"
	"github.com/ripplehq/ripple-api/internal/domain/auth"
	"github.com/ripplehq/ripple-api/internal/domain/feed"
	"github.com/ripplehq/ripple-api/internal/domain/relationship"
	"github.com/ripplehq/ripple-api/internal/domain/user"
	"github.com/ripplehq/ripple-api/internal/middleware"
	"github.com/ripplehq/ripple-api/internal/pkg/database"
	"github.com/ripplehq/ripple-api/internal/pkg/imaging"
	"github.com/ripplehq/ripple-api/internal/pkg/jwt"
	"github.com/ripplehq/ripple-api/internal/pkg/logger"
	pkgresponse "github.com/ripplehq/ripple-api/internal/pkg/response"
	"github.com/ripplehq/ripple-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Ripple API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// Relationship change events ride Redis pub/sub so every API instance
	// sees mutations from every other one. Without Redis we fall back to an
	// in-process notifier, which is only correct for a single instance.
	var notifier relationship.Notifier
	redisClient, err := database.NewRedis(cfg.RedisURL)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Redis unavailable, using in-process notifier")
		notifier = relationship.NewMemoryNotifier()
	case redisClient == nil:
		notifier = relationship.NewMemoryNotifier()
	default:
		defer database.CloseRedis(redisClient)
		notifier = relationship.NewRedisNotifier(redisClient)
	}

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize media storage")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	relationshipRepo := relationship.NewRepository(db)
	feedRepo := feed.NewRepository(db)

	// ---------- Services ----------
	friendService := relationship.NewService(relationshipRepo, notifier)
	blockService := relationship.NewBlockService(relationshipRepo, notifier)
	resolver := relationship.NewResolver(friendService, blockService)
	authService := auth.NewService(userRepo, jwtService)

	processor := imaging.NewProcessor(imaging.DefaultConfig())
	feedService := feed.NewService(feedRepo, userRepo, resolver, store, processor)

	// ---------- Handlers ----------
	directory := &userDirectoryAdapter{repo: userRepo}
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userRepo, feedRepo)
	relationshipHandler := relationship.NewHandler(friendService, blockService, directory, notifier, cfg.AllowedOrigins)
	feedHandler := feed.NewHandler(feedService)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (browser clients pass the token as a query param)
	r.Get("/api/v1/relationships/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(relationshipHandler.StreamWS)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/friends", relationshipHandler.FriendRoutes(authMiddleware))
		r.Mount("/relationships", relationshipHandler.BucketRoutes(authMiddleware))
		r.Mount("/posts", feedHandler.Routes(authMiddleware, optionalAuth))
		r.Mount("/feed", feedHandler.FeedRoutes(optionalAuth))

		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware)
			userHandler.MountRoutes(r)
			relationshipHandler.MountUserRoutes(r)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend == "s3" {
		return storage.NewS3Storage(storage.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
	}
	return storage.NewLocalStorage(cfg.LocalMediaDir, "/media")
}

// userDirectoryAdapter adapts user.Repository to relationship.UserDirectory
type userDirectoryAdapter struct {
	repo user.Repository
}

func (a *userDirectoryAdapter) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return a.repo.ListIDs(ctx)
}
