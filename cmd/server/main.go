package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog/api"
	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog/config"
)

// envConfig mirrors the process environment. Environment-specific logic stays
// in the executable; the config package only sees explicit options.
type envConfig struct {
	Port               string `env:"PORT" env-default:"8080"`
	Environment        string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseType       string `env:"DATABASE_TYPE" env-default:"memory"`
	DatabaseURL        string `env:"DATABASE_URL" env-default:""`
	EnableEventLogging bool   `env:"ENABLE_EVENT_LOGGING" env-default:"true"`
}

func main() {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	cfg, err := config.Load(
		config.WithPort(env.Port),
		config.WithEnvironment(env.Environment),
		config.WithDatabase(env.DatabaseType, env.DatabaseURL),
		config.WithEventLogging(env.EnableEventLogging),
	)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: routes(cfg, api.NewHandler(svc)),
	}

	go func() {
		slog.Info("catalog server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"database", cfg.DatabaseType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("server exiting")
}

func routes(cfg *config.ServerConfig, h *api.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "environment": %q}`, cfg.Environment)
	})

	r.Mount("/api/v1", h.Routes())

	return r
}
