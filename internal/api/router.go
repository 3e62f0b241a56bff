package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jordanarrivado/ajs-portfolio/internal/api/handler"
	customMiddleware "github.com/jordanarrivado/ajs-portfolio/internal/api/middleware"
	"github.com/jordanarrivado/ajs-portfolio/internal/config"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/security"
	"github.com/jordanarrivado/ajs-portfolio/internal/service"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Dependencies are the collaborators built in main
type Dependencies struct {
	Repo     domain.ChatLogRepository
	Gateway  service.Completer
	Location *time.Location

	// Limiter throttles the chat endpoint. Nil disables rate limiting.
	Limiter customMiddleware.Limiter

	Providers       []string
	DefaultProvider string
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Content-Disposition"},
		MaxAge:         300,
	}))

	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	var jwtManager *security.JWTManager
	if cfg.Auth.Enabled() {
		jwtManager = security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	// Initialize services
	chatService := service.NewChatService(deps.Gateway, deps.Repo, loc, cfg.Database.WriteTimeout)
	chatLogService := service.NewChatLogService(deps.Repo)
	adminService := service.NewAdminService(deps.Repo, jwtManager, service.AdminConfig{
		Username:     cfg.Auth.AdminUsername,
		PasswordHash: cfg.Auth.AdminPasswordHash,
		ExportLimit:  cfg.Admin.ExportLimit,
		Location:     loc,
	})

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	chatLogHandler := handler.NewChatLogHandler(chatLogService, adminService, loc)
	authHandler := handler.NewAuthHandler(adminService)

	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Repo))

		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.Limiter).Limit)
			}
			r.Post("/chat", chatHandler.Chat)
		})

		// Dashboard routes
		r.Group(func(r chi.Router) {
			if jwtManager != nil {
				r.Use(customMiddleware.NewAuthMiddleware(jwtManager).Authenticate)
			} else {
				log.Warn().Msg("ADMIN_PASSWORD_HASH is not set, dashboard routes are unauthenticated")
			}

			r.Get("/llm/providers", handler.ListLLMProviders(deps.Providers, deps.DefaultProvider))

			r.Route("/chatlog", func(r chi.Router) {
				r.Get("/", chatLogHandler.List)
				r.Get("/export", chatLogHandler.Export)
				r.Get("/analytics", chatLogHandler.Analytics)
				r.Get("/{id}", chatLogHandler.Get)
				r.Delete("/{id}", chatLogHandler.Delete)
			})
		})
	})

	if cfg.Telemetry.Enabled {
		return otelhttp.NewHandler(r, cfg.Telemetry.ServiceName)
	}
	return r
}
