package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ruxixa/chat-app/internal/application/auth"
	"github.com/ruxixa/chat-app/internal/application/conversation"
	"github.com/ruxixa/chat-app/internal/application/directory"
	"github.com/ruxixa/chat-app/internal/application/message"
	"github.com/ruxixa/chat-app/internal/application/ports"
	"github.com/ruxixa/chat-app/internal/config"
	httprouter "github.com/ruxixa/chat-app/internal/infrastructure/http"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/handlers"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/middleware"
	"github.com/ruxixa/chat-app/internal/infrastructure/lockout"
	"github.com/ruxixa/chat-app/internal/infrastructure/persistence/postgres"
	"github.com/ruxixa/chat-app/internal/infrastructure/security"
	"github.com/ruxixa/chat-app/internal/infrastructure/webhook"
)

const apiVersion = "1"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	userRepo := postgres.NewUserRepository(pool)
	convoRepo := postgres.NewConversationRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})

	var emitter ports.WebhookEmitter
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL)
	} else {
		emitter = webhook.NewNoopEmitter()
	}

	verifyUC := auth.NewVerifyCredentials(userRepo, hasher)
	registerUC := auth.NewRegisterUser(userRepo, hasher)
	getOrCreateUC := conversation.NewGetOrCreate(convoRepo, userRepo)
	sendUC := message.NewSend(messageRepo, convoRepo)
	listMessagesUC := message.NewList(messageRepo, convoRepo)
	listUsersUC := directory.NewListUsers(userRepo)
	getUserUC := directory.NewGetUser(userRepo)
	getProfileUC := directory.NewGetProfile(userRepo, convoRepo)

	lockoutStore := lockout.NewMemoryStore(cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSeconds)
	requireAuth := middleware.NewBasicAuthenticator(verifyUC, lockoutStore, log).Handler
	requireAdmin := middleware.RequireAdminSecret(cfg.Admin.Secret)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.RatePerUser)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))
	var corsMiddleware func(http.Handler) http.Handler
	if cfg.CORS.AllowedOrigins != "" {
		corsMiddleware = middleware.CORS(strings.Split(cfg.CORS.AllowedOrigins, ","), nil, nil)
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:          handlers.NewAuthHandler(emitter, log),
		UsersHandler:         handlers.NewUsersHandler(listUsersUC, getUserUC, getProfileUC, log),
		ConversationsHandler: handlers.NewConversationsHandler(getOrCreateUC, sendUC, listMessagesUC, log),
		AdminHandler:         handlers.NewAdminHandler(registerUC, emitter, log),
		HealthHandler:        handlers.NewHealthHandler(pool),
		RequireAuth:          requireAuth,
		RequireAdmin:         requireAdmin,
		Log:                  log,
		Secure:               secureMiddleware,
		CORS:                 corsMiddleware,
		IPRateLimit:          ipLimit,
		UserRateLimit:        userLimit,
		APIVersion:           apiVersion,
		Metrics:              true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}
