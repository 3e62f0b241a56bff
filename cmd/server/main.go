package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/api"
	"github.com/jordanarrivado/ajs-portfolio/internal/config"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm/anthropic"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm/gemini"
	"github.com/jordanarrivado/ajs-portfolio/internal/llm/openai"
	"github.com/jordanarrivado/ajs-portfolio/internal/repository/mongo"
	"github.com/jordanarrivado/ajs-portfolio/internal/repository/redis"
	"github.com/jordanarrivado/ajs-portfolio/internal/repository/sqlite"
	"github.com/jordanarrivado/ajs-portfolio/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		fmt.Println("Warning: .env file not found in any standard location")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	closer, err := config.SetupLogging(cfg.Logging, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closer.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	loc, err := domain.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load timezone")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Database.Scheme()).
		Str("llm_provider", cfg.LLM.Provider).
		Msg("Starting portfolio chat API server")

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(cfg.Telemetry.ServiceName, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer shutdown(context.Background())
	}

	// Initialize store
	repo, closeStore, err := openStore(cfg, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open chat log store")
	}
	defer closeStore()

	// Initialize LLM providers
	gateway, llmRouter, err := newGateway(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM provider")
	}

	deps := api.Dependencies{
		Repo:            repo,
		Gateway:         gateway,
		Location:        loc,
		Providers:       llmRouter.ListProviders(),
		DefaultProvider: llmRouter.DefaultProvider(),
	}

	// Initialize Redis rate limiter
	if cfg.RateLimit.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, chat rate limiting disabled")
		} else {
			defer redisClient.Close()
			deps.Limiter = redis.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		}
	}

	// Initialize router
	router := api.NewRouter(cfg, deps)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// openStore picks the chat log store from the database URI scheme
func openStore(cfg *config.Config, loc *time.Location) (domain.ChatLogRepository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout+5*time.Second)
	defer cancel()

	switch cfg.Database.Scheme() {
	case "mongodb", "mongodb+srv":
		db := mongo.NewDB(cfg.Database)
		// a failed first dial is retried lazily by the repository
		if _, err := db.Connect(ctx); err != nil {
			log.Warn().Err(err).Msg("MongoDB not reachable yet, will retry on first request")
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect MongoDB")
			}
		}
		return mongo.NewChatLogRepository(db, loc), closeFn, nil

	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.PathFromURI(cfg.Database.URI))
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.RunMigrations(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewChatLogRepository(db, loc), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database URI scheme %q", cfg.Database.Scheme())
	}
}

// newGateway builds the primary and fallback completion providers. Both use
// the same provider kind with different credentials.
func newGateway(cfg *config.Config) (*llm.Gateway, *llm.Router, error) {
	llmRouter := llm.NewRouter(cfg.LLM.Provider)
	llmRouter.RegisterFactory("openai", openai.NewProvider)
	llmRouter.RegisterFactory("anthropic", anthropic.NewProvider)
	llmRouter.RegisterFactory("gemini", gemini.NewProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.Provider)

	var httpClient *http.Client
	if cfg.Telemetry.Enabled {
		httpClient = &http.Client{
			Timeout:   cfg.LLM.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	providerCfg := llm.ProviderConfig{
		APIKey:       cfg.LLM.APIKey,
		BaseURL:      cfg.LLM.Endpoint,
		DefaultModel: cfg.LLM.Model,
		Timeout:      cfg.LLM.Timeout,
		HTTPClient:   httpClient,
	}

	primary, err := llmRouter.Build("", providerCfg)
	if err != nil {
		return nil, nil, err
	}

	var secondary llm.Provider
	if cfg.LLM.APIKey2 != "" {
		providerCfg.APIKey = cfg.LLM.APIKey2
		secondary, err = llmRouter.Build("", providerCfg)
		if err != nil {
			return nil, nil, err
		}
	}

	gateway := llm.NewGateway(primary, secondary, llm.GatewayConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		Timeout:     cfg.LLM.Timeout,
	})

	return gateway, llmRouter, nil
}
