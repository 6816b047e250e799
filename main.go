package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := NewAPIConfig(os.Stdout)
	if err != nil {
		logger := newLogger(os.Stderr, false)
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.logger.Debug("configuration loaded")

	if err := cfg.ConnectDB(); err != nil {
		os.Exit(1)
	}
	if err := cfg.ConnectCache(); err != nil {
		os.Exit(1)
	}

	scheduler, err := NewScheduler(cfg)
	if err != nil {
		cfg.logger.Error("could not create scheduler", "error", err)
		os.Exit(1)
	}
	cfg.logger.Info(
		"starting scheduler",
		"current", cfg.schedulerCurrentInterval.String(),
		"forecast", cfg.schedulerForecastInterval.String(),
		"airquality", cfg.schedulerAirQualityInterval.String(),
	)
	scheduler.Start()

	server := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           cfg.routes(scheduler),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		cfg.logger.Info("starting server", "port", cfg.port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.logger.Error("server startup failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	cfg.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cfg.logger.Error("server shutdown failed", "error", err)
	}
	scheduler.Stop()
}

// routes registers every endpoint. Development endpoints exist only in dev
// mode.
func (cfg *apiConfig) routes(scheduler *Scheduler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/dashboard", cfg.handlerDashboard)
	mux.HandleFunc("/api/currentweather", cfg.handlerCurrentWeather)
	mux.HandleFunc("/api/dailyforecast", cfg.handlerDailyForecast)
	mux.HandleFunc("/api/hourlyforecast", cfg.handlerHourlyForecast)
	mux.HandleFunc("/api/airquality", cfg.handlerAirQuality)
	mux.HandleFunc("/api/maplayers", cfg.handlerMapLayers)
	mux.HandleFunc("/tiles/{layer}/{z}/{x}/{y}", cfg.handlerTile)
	mux.HandleFunc("/api/config", cfg.handlerConfig)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.devMode {
		cfg.logger.Debug("development mode enabled, registering /dev endpoints")
		mux.HandleFunc("/dev/reset-db", cfg.handlerResetDB)
		if scheduler != nil {
			mux.HandleFunc("/dev/runschedulerjobs", scheduler.handlerRunSchedulerJobs)
		}
	}

	return metricsMiddleware(corsMiddleware(mux))
}
