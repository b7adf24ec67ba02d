// Package main is the entrypoint for the Wellpath portal server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/wellpath/portal/internal/apiclient"
	"github.com/wellpath/portal/internal/cache"
	"github.com/wellpath/portal/internal/config"
	"github.com/wellpath/portal/internal/handler"
	"github.com/wellpath/portal/internal/metrics"
	"github.com/wellpath/portal/internal/ratelimit"
	"github.com/wellpath/portal/internal/repository"
	"github.com/wellpath/portal/internal/server"
	"github.com/wellpath/portal/internal/service"
	"github.com/wellpath/portal/internal/session"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	recorder := metrics.NewInMemory()

	// Session persistence
	store, limiter, shutdowns, err := initSessionBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sessions := session.NewManager(store, cfg.SessionTTL, logger)
	unsubscribe := sessions.Subscribe(func(e session.Event) {
		logger.Debug("session event",
			slog.String("type", string(e.Type)),
			slog.String("user_id", e.UserID),
		)
	})
	defer unsubscribe()

	// Backend API client
	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithHTTPClient(apiclient.NewHTTPClient(cfg.APITimeout)),
		apiclient.WithLogger(logger),
		apiclient.WithRecorder(recorder),
		apiclient.WithUnauthorizedHandler(handler.SessionInvalidator(sessions, recorder, logger)),
	)

	// Setup router
	r := handler.NewRouter(handler.RouterConfig{
		Logger:   logger,
		Services: service.New(client),
		Sessions: sessions,
		Cookie: session.CookieConfig{
			Name:   cfg.SessionCookieName,
			TTL:    cfg.SessionTTL,
			Secure: !cfg.IsDevelopment(),
		},
		Backend:           client,
		Metrics:           recorder,
		Snapshotter:       recorder,
		LoginLimiter:      limiter,
		RateLimitEnabled:  cfg.LoginRateLimitEnabled,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Development:       cfg.IsDevelopment(),
		AllowedOrigins:    cfg.GetCORSAllowedOrigins(),
		MaxBodySize:       cfg.MaxRequestBodySize,
	})

	// Create and run server
	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	for _, s := range shutdowns {
		srv.OnShutdown(s.name, s.fn)
	}

	if sweeper, ok := store.(session.Sweeper); ok {
		janitor := session.NewJanitor(sweeper, session.DefaultSweepInterval, logger)
		go func() {
			if err := janitor.Run(ctx); err != nil {
				logger.Error("session janitor error", "error", err)
			}
		}()
		srv.OnShutdown("session_janitor", janitor.Shutdown)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"api_base_url", redactURL(cfg.APIBaseURL),
		"session_backend", cfg.SessionBackend,
		"env", cfg.AppEnv,
	)

	return srv.Run(ctx)
}

type namedShutdown struct {
	name string
	fn   server.ShutdownFunc
}

// initSessionBackend connects the configured session store and picks the
// login limiter that goes with it.
func initSessionBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, ratelimit.Limiter, []namedShutdown, error) {
	memoryLimiter := ratelimit.NewMemory(float64(cfg.LoginRateLimitRPS), cfg.LoginRateLimitBurst)

	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return nil, nil, nil, fmt.Errorf("connect to redis: %s", sanitizeError(err, cfg.RedisURL))
		}
		logger.Info("connected to Redis")

		limiter := ratelimit.NewRedis(cacheClient, cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst)
		return cacheClient.Sessions(), limiter, []namedShutdown{{
			name: "redis",
			fn:   func(context.Context) error { return cacheClient.Close() },
		}}, nil

	case config.SessionBackendPostgres:
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return nil, nil, nil, fmt.Errorf("connect to database: %s", sanitizeError(err, cfg.DatabaseURL))
		}
		logger.Info("connected to database")

		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, nil, nil, fmt.Errorf("migrate sessions schema: %w", err)
		}

		return repo.Sessions(), memoryLimiter, []namedShutdown{{
			name: "postgres",
			fn: func(context.Context) error {
				repo.Close()
				return nil
			},
		}}, nil

	default:
		logger.Warn("using in-memory sessions; they will not survive a restart")
		return session.NewMemoryStore(), memoryLimiter, nil, nil
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
