package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/cor0nius/skylens/internal/owm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type apiConfig struct {
	dbQueries       dbQuerier
	dbURL           string
	newDBClientFunc func(driverName, dataSourceName string) (*sql.DB, error)
	cache           Cache
	redisURL        string
	weather         weatherClient
	geocoder        GeocodingService
	validate        *validator.Validate
	httpClient      *http.Client
	owmKey          string
	owmBaseURL      string
	owmTileURL      string
	defaultLat      float64
	defaultLon      float64
	forecastDays    int
	hourlyWindow    int
	aqiHistory      time.Duration

	schedulerCurrentInterval    time.Duration
	schedulerForecastInterval   time.Duration
	schedulerAirQualityInterval time.Duration

	port    string
	devMode bool
	logger  *slog.Logger
	clock   func() time.Time
}

// settings are the tunables read from the environment that have bounds.
type settings struct {
	DefaultLat      float64 `validate:"gte=-90,lte=90"`
	DefaultLon      float64 `validate:"gte=-180,lte=180"`
	ForecastDays    int     `validate:"min=1,max=5"`
	HourlyWindow    int     `validate:"min=1,max=40"`
	AQIHistoryHours int     `validate:"min=1,max=120"`
	OwmRPS          float64 `validate:"gt=0"`
	OwmBurst        int     `validate:"min=1"`
}

// getRequiredEnv retrieves an environment variable by key and fails if it's unset or empty.
func getRequiredEnv(key string) (string, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return "", fmt.Errorf("environment variable %s must be set", key)
	}
	return val, nil
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok || valStr == "" {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// getEnvAsFloat retrieves an environment variable as a float, with a fallback value.
func getEnvAsFloat(key string, fallback float64, logger *slog.Logger) float64 {
	valStr, ok := os.LookupEnv(key)
	if !ok || valStr == "" {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		logger.Warn("invalid float value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

func newLogger(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

// NewAPIConfig reads the environment and builds the service configuration.
// It does not open connections; see ConnectDB and ConnectCache.
func NewAPIConfig(logOutput io.Writer) (*apiConfig, error) {
	devMode, err := strconv.ParseBool(os.Getenv("DEV_MODE"))
	if err != nil {
		devMode = false
	}
	logger := newLogger(logOutput, devMode)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	dbURL, err := getRequiredEnv("DB_URL")
	if err != nil {
		return nil, err
	}
	redisURL, err := getRequiredEnv("REDIS_URL")
	if err != nil {
		return nil, err
	}
	owmKey, err := getRequiredEnv("OWM_KEY")
	if err != nil {
		return nil, err
	}

	s := settings{
		DefaultLat:      getEnvAsFloat("DEFAULT_LAT", 22.5726, logger),
		DefaultLon:      getEnvAsFloat("DEFAULT_LON", 88.3639, logger),
		ForecastDays:    getEnvAsInt("FORECAST_DAYS", 5, logger),
		HourlyWindow:    getEnvAsInt("HOURLY_WINDOW", 12, logger),
		AQIHistoryHours: getEnvAsInt("AQI_HISTORY_HOURS", 12, logger),
		OwmRPS:          getEnvAsFloat("OWM_RPS", 1, logger),
		OwmBurst:        getEnvAsInt("OWM_BURST", 5, logger),
	}
	validate, err := newValidator()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentIntervalMin := getEnvAsInt("CURRENT_INTERVAL_MIN", 10, logger)
	forecastIntervalMin := getEnvAsInt("FORECAST_INTERVAL_MIN", 60, logger)
	airIntervalMin := getEnvAsInt("AIR_INTERVAL_MIN", 60, logger)

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: &metricsTransport{wrapped: http.DefaultTransport},
	}

	cfg := &apiConfig{
		dbURL:                       dbURL,
		newDBClientFunc:             sql.Open,
		redisURL:                    redisURL,
		validate:                    validate,
		httpClient:                  httpClient,
		owmKey:                      owmKey,
		owmBaseURL:                  getEnv("OWM_BASE_URL", owm.DefaultBaseURL, logger),
		owmTileURL:                  getEnv("OWM_TILE_URL", owm.DefaultTileURL, logger),
		defaultLat:                  s.DefaultLat,
		defaultLon:                  s.DefaultLon,
		forecastDays:                s.ForecastDays,
		hourlyWindow:                s.HourlyWindow,
		aqiHistory:                  time.Duration(s.AQIHistoryHours) * time.Hour,
		schedulerCurrentInterval:    time.Duration(currentIntervalMin) * time.Minute,
		schedulerForecastInterval:   time.Duration(forecastIntervalMin) * time.Minute,
		schedulerAirQualityInterval: time.Duration(airIntervalMin) * time.Minute,
		port:                        getEnv("PORT", "8080", logger),
		devMode:                     devMode,
		logger:                      logger,
		clock:                       time.Now,
	}

	client := owm.NewClient(owm.Config{
		APIKey:     owmKey,
		BaseURL:    cfg.owmBaseURL,
		TileURL:    cfg.owmTileURL,
		HTTPClient: httpClient,
		RPS:        s.OwmRPS,
		Burst:      s.OwmBurst,
		Logger:     logger,
		Observe:    observeUpstream,
	})
	cfg.weather = client
	cfg.geocoder = NewOwmGeocodingService(client)

	return cfg, nil
}

// now returns the current time in UTC from the configured clock.
func (cfg *apiConfig) now() time.Time {
	if cfg.clock == nil {
		return time.Now().UTC()
	}
	return cfg.clock().UTC()
}
