// Package main is the entrypoint for the Women Count API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/womencount/womencount/internal/cache"
	"github.com/womencount/womencount/internal/config"
	"github.com/womencount/womencount/internal/handler"
	"github.com/womencount/womencount/internal/middleware"
	"github.com/womencount/womencount/internal/repository"
	"github.com/womencount/womencount/internal/server"
	"github.com/womencount/womencount/internal/service"
	"github.com/womencount/womencount/internal/stats"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	womanService := service.NewWomanService(repo)
	apiKeyService := service.NewAPIKeyService(repo, logger)
	statsEngine := stats.NewEngine(repo)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	womanHandler := handler.NewWomanHandler(womanService, logger)
	statsHandler := handler.NewStatsHandler(statsEngine, logger)
	adminHandler := handler.NewAdminHandler(apiKeyService, handler.AdminConfig{
		Email:         cfg.AdminEmail,
		PasswordHash:  cfg.AdminPasswordHash,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.IsProduction(),
	}, logger)

	// Setup router
	r := setupRouter(h, healthHandler, womanHandler, statsHandler, adminHandler, apiKeyService, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	womanHandler *handler.WomanHandler,
	statsHandler *handler.StatsHandler,
	adminHandler *handler.AdminHandler,
	apiKeyService *service.APIKeyService,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	r.Use(chimiddleware.Timeout(cfg.QueryTimeout))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Keys:   apiKeyService,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:     logger,
		Cache:      cacheClient,
		Enabled:    cfg.RateLimitEnabled,
		KeyRPM:     cfg.RateLimitKeyRPM,
		KeyBurst:   cfg.RateLimitKeyBurst,
		LoginRPM:   cfg.RateLimitLoginRPM,
		LoginBurst: cfg.RateLimitLoginBurst,
	}

	r.Route("/api", func(r chi.Router) {
		// Public API index
		r.Get("/", h.APIIndex)

		// Data routes require an active API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(authCfg))
			r.Use(middleware.RateLimitAPIKey(rateLimitCfg))
			r.Use(middleware.RequireJSON())

			r.Route("/women", func(r chi.Router) {
				r.Get("/", womanHandler.List)
				r.Post("/", womanHandler.Create)
				r.Get("/{id}", womanHandler.Get)
				r.Put("/{id}", womanHandler.Update)
				r.Delete("/{id}", womanHandler.Delete)
			})

			r.Get("/statistiques", statsHandler.Get)
		})
	})

	// Admin console
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", adminHandler.LoginPage)
		r.With(middleware.RateLimitLogin(rateLimitCfg)).Post("/login", adminHandler.Login)

		// Session-protected console routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(middleware.AdminAuthConfig{
				Logger:        logger,
				SessionSecret: cfg.SessionSecret,
			}))

			r.Post("/logout", adminHandler.Logout)
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Route("/api-keys", func(r chi.Router) {
				r.Get("/", adminHandler.ListAPIKeys)
				r.Post("/create", adminHandler.CreateAPIKey)
				r.Post("/{key}/revoke", adminHandler.RevokeAPIKey)
				r.Delete("/{key}", adminHandler.DeleteAPIKey)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
