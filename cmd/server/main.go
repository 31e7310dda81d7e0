package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sumit-9900/backend-project/internal/config"
	"github.com/Sumit-9900/backend-project/internal/database"
	"github.com/Sumit-9900/backend-project/internal/media"
	postgresrepo "github.com/Sumit-9900/backend-project/internal/repository/postgres"
	"github.com/Sumit-9900/backend-project/internal/service"
	"github.com/Sumit-9900/backend-project/internal/token"
	"github.com/Sumit-9900/backend-project/internal/transport/http/handlers"
	"github.com/Sumit-9900/backend-project/internal/transport/http/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	l, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer l.Sync()

	ctx := context.Background()

	// Database
	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		l.Fatal("migrations failed", zap.Error(err))
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	l.Info("connected to database")

	// Tokens and media storage
	tokens, err := token.NewManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		l.Fatal("token manager init failed", zap.Error(err))
	}
	uploader, err := media.NewS3Uploader(ctx, cfg.Media)
	if err != nil {
		l.Fatal("media storage init failed", zap.Error(err))
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, tokens, uploader)
	userService := service.NewUserService(userRepo, uploader)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, l)
	userHandler := handlers.NewUserHandler(userService, l)

	// Auth middleware
	auth := middleware.Auth(tokens)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Public
	mux.HandleFunc("POST /api/v1/users/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/users/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-token", authHandler.RefreshToken)

	// Protected
	mux.Handle("POST /api/v1/users/logout", auth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("POST /api/v1/users/change-password", auth(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/v1/users/current-user", auth(http.HandlerFunc(userHandler.CurrentUser)))
	mux.Handle("POST /api/v1/users/update-user-details", auth(http.HandlerFunc(userHandler.UpdateDetails)))
	mux.Handle("POST /api/v1/users/update-user-avatar", auth(http.HandlerFunc(userHandler.UpdateAvatar)))
	mux.Handle("POST /api/v1/users/update-user-cover-image", auth(http.HandlerFunc(userHandler.UpdateCoverImage)))

	l.Info("starting server", zap.String("addr", cfg.Listen))
	if err := http.ListenAndServe(cfg.Listen, middleware.CORS(cfg.CORSOrigin, mux)); err != nil {
		l.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
