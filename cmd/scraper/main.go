// Command scraper pushes the skylens Prometheus metrics to Google Cloud
// Monitoring each time it receives an HTTP request, typically from Cloud
// Scheduler.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cor0nius/skylens/internal/scraper"
	"github.com/joho/godotenv"
)

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	cfg := scraper.Config{
		MetricsURL: os.Getenv("METRICS_URL"),
		ProjectID:  os.Getenv("PROJECT_ID"),
		Location:   getEnv("MONITORING_LOCATION", "europe-west1"),
		Namespace:  getEnv("MONITORING_NAMESPACE", "skylens"),
		Job:        getEnv("MONITORING_JOB", "skylens"),
		Prefix:     getEnv("METRIC_PREFIX", "skylens_"),
	}
	if cfg.MetricsURL == "" || cfg.ProjectID == "" {
		logger.Error("environment variables METRICS_URL and PROJECT_ID must be set")
		os.Exit(1)
	}

	s := scraper.New(cfg, nil, scraper.CloudWriter{}, logger)

	port := getEnv("PORT", "8080")
	mux := http.NewServeMux()
	mux.Handle("/", s.Handler())

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("starting server", "port", port)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
