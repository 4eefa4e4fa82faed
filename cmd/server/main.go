package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/friendscore/backend/internal/config"
	"github.com/friendscore/backend/internal/database"
	"github.com/friendscore/backend/internal/logging"
	"github.com/friendscore/backend/internal/metrics"
	"github.com/friendscore/backend/internal/presence"
	postgresrepo "github.com/friendscore/backend/internal/repository/postgres"
	"github.com/friendscore/backend/internal/service"
	"github.com/friendscore/backend/internal/transport/http/handlers"
	"github.com/friendscore/backend/internal/transport/http/middleware"
	"github.com/friendscore/backend/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)
	notificationRepo := postgresrepo.NewNotificationRepo(pool)
	friendRepo := postgresrepo.NewFriendRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)

	// Realtime core
	registry := presence.NewRegistry()
	hub := ws.NewHub(registry, logger)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	notificationService := service.NewNotificationService(notificationRepo, hub, logger)
	chatService := service.NewChatService(messageRepo, notificationService, registry, hub, logger)
	statsService := service.NewStatsService(postRepo, friendRepo, registry, hub, logger)
	presenceService := service.NewPresenceService(registry, hub, statsService, logger)
	friendService := service.NewFriendService(friendRepo, userRepo, notificationService, statsService, hub, logger)
	postService := service.NewPostService(postRepo, userRepo, notificationService, hub, logger)
	profileService := service.NewProfileService(userRepo, hub, logger)

	hub.SetServices(&ws.Services{
		Chat:          chatService,
		Notifications: notificationService,
	})
	hub.SetConnectionListener(presenceService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	messageHandler := handlers.NewMessageHandler(chatService, logger)
	friendHandler := handlers.NewFriendHandler(friendService, logger)
	postHandler := handlers.NewPostHandler(postService, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logger)
	dashboardHandler := handlers.NewDashboardHandler(statsService, presenceService, logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// WebSocket (token via query param)
	mux.HandleFunc("GET /ws/{topic}", ws.ServeWS(hub, cfg.JWTSecret))

	// Protected - Messages
	mux.Handle("GET /api/v1/messages/{userId}", auth(http.HandlerFunc(messageHandler.History)))

	// Protected - Friends
	mux.Handle("POST /api/v1/friends/requests", auth(http.HandlerFunc(friendHandler.SendRequest)))
	mux.Handle("POST /api/v1/friends/requests/{id}/accept", auth(http.HandlerFunc(friendHandler.Accept)))
	mux.Handle("POST /api/v1/friends/requests/{id}/reject", auth(http.HandlerFunc(friendHandler.Reject)))
	mux.Handle("GET /api/v1/friends/requests", auth(http.HandlerFunc(friendHandler.Pending)))
	mux.Handle("GET /api/v1/friends", auth(http.HandlerFunc(friendHandler.List)))
	mux.Handle("GET /api/v1/friends/suggestions", auth(http.HandlerFunc(friendHandler.Suggestions)))

	// Protected - Posts
	mux.Handle("POST /api/v1/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /api/v1/posts", auth(http.HandlerFunc(postHandler.List)))
	mux.Handle("GET /api/v1/users/{id}/posts", auth(http.HandlerFunc(postHandler.ListByAuthor)))
	mux.Handle("POST /api/v1/posts/{id}/like", auth(http.HandlerFunc(postHandler.Like)))
	mux.Handle("POST /api/v1/posts/{id}/comments", auth(http.HandlerFunc(postHandler.Comment)))

	// Protected - Notifications
	mux.Handle("GET /api/v1/notifications", auth(http.HandlerFunc(notificationHandler.ListAll)))
	mux.Handle("GET /api/v1/notifications/unread", auth(http.HandlerFunc(notificationHandler.ListUnread)))
	mux.Handle("GET /api/v1/notifications/unread/count", auth(http.HandlerFunc(notificationHandler.UnreadCount)))
	mux.Handle("POST /api/v1/notifications/read", auth(http.HandlerFunc(notificationHandler.MarkAllRead)))
	mux.Handle("POST /api/v1/notifications/{id}/read", auth(http.HandlerFunc(notificationHandler.MarkOneRead)))

	// Protected - Dashboard
	mux.Handle("GET /api/v1/dashboard/stats", auth(http.HandlerFunc(dashboardHandler.Stats)))
	mux.Handle("GET /api/v1/dashboard/online", auth(http.HandlerFunc(dashboardHandler.OnlineUsers)))

	// Protected - Profile
	mux.Handle("PUT /api/v1/profile", auth(http.HandlerFunc(profileHandler.Update)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.CORS(mux),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
