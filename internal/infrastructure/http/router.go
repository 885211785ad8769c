package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ruxixa/chat-app/internal/infrastructure/http/handlers"
	"github.com/ruxixa/chat-app/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler          *handlers.AuthHandler
	UsersHandler         *handlers.UsersHandler
	ConversationsHandler *handlers.ConversationsHandler
	AdminHandler         *handlers.AdminHandler
	HealthHandler        *handlers.HealthHandler
	RequireAuth          func(http.Handler) http.Handler // Basic credential check on every protected route
	RequireAdmin         func(http.Handler) http.Handler // X-Admin-Secret for /admin/*
	Log                  zerolog.Logger
	Secure               func(http.Handler) http.Handler
	CORS                 func(http.Handler) http.Handler
	IPRateLimit          func(http.Handler) http.Handler
	UserRateLimit        func(http.Handler) http.Handler
	APIVersion           string
	Metrics              bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.APIVersion != "" {
		r.Use(middleware.APIVersion(cfg.APIVersion))
	}
	r.Use(chimid.AllowContentType("application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Every messaging route requires the Basic credential header; it is
	// re-verified against the store on each call.
	r.Group(func(r chi.Router) {
		r.Use(cfg.RequireAuth)
		if cfg.UserRateLimit != nil {
			r.Use(cfg.UserRateLimit)
		}

		r.Post("/login", cfg.AuthHandler.Login)

		r.Route("/api", func(r chi.Router) {
			r.Get("/@me", cfg.UsersHandler.Me)
			r.Get("/users", cfg.UsersHandler.List)
			r.Get("/users/{userID}", cfg.UsersHandler.Get)

			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", cfg.ConversationsHandler.Create)
				r.Get("/{conversationID}/messages", cfg.ConversationsHandler.ListMessages)
				r.Post("/{conversationID}/messages", cfg.ConversationsHandler.SendMessage)
			})
		})
	})

	if cfg.AdminHandler != nil && cfg.RequireAdmin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(cfg.RequireAdmin)
			r.Post("/users", cfg.AdminHandler.CreateUser)
		})
	}

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
