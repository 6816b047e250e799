package main

import (
	"context"
	"time"

	"github.com/cor0nius/skylens/internal/database"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// ConnectDB opens the PostgreSQL connection described by cfg.dbURL, pings it
// and installs the sqlc queries as cfg.dbQueries.
func (cfg *apiConfig) ConnectDB() error {
	db, err := cfg.newDBClientFunc("postgres", cfg.dbURL)
	if err != nil {
		cfg.logger.Error("couldn't prepare connection to database", "error", err)
		return err
	}
	if err := db.Ping(); err != nil {
		cfg.logger.Error("couldn't connect to database", "error", err)
		return err
	}
	cfg.dbQueries = database.New(db)
	cfg.logger.Info("connected to database")
	return nil
}

// dbQuerier is the subset of the sqlc Queries the service uses. Tests replace
// it with a function-field mock.
type dbQuerier interface {
	CreateAirQualitySample(ctx context.Context, arg database.CreateAirQualitySampleParams) (database.AirQualitySample, error)
	CreateCurrentWeather(ctx context.Context, arg database.CreateCurrentWeatherParams) (database.CurrentWeather, error)
	CreateForecastSample(ctx context.Context, arg database.CreateForecastSampleParams) (database.ForecastSample, error)
	CreateLocation(ctx context.Context, arg database.CreateLocationParams) (database.Location, error)
	CreateLocationAlias(ctx context.Context, arg database.CreateLocationAliasParams) (database.LocationAlias, error)
	DeleteAirQualitySamplesBefore(ctx context.Context, sampleTime time.Time) error
	DeleteAllLocations(ctx context.Context) error
	DeleteForecastSamplesBefore(ctx context.Context, forecastTime time.Time) error
	GetAirQualitySampleAtTime(ctx context.Context, arg database.GetAirQualitySampleAtTimeParams) (database.AirQualitySample, error)
	GetAirQualitySamplesAtLocation(ctx context.Context, arg database.GetAirQualitySamplesAtLocationParams) ([]database.AirQualitySample, error)
	GetCurrentWeatherAtLocation(ctx context.Context, locationID uuid.UUID) (database.CurrentWeather, error)
	GetForecastSampleAtTime(ctx context.Context, arg database.GetForecastSampleAtTimeParams) (database.ForecastSample, error)
	GetForecastSamplesAtLocation(ctx context.Context, arg database.GetForecastSamplesAtLocationParams) ([]database.ForecastSample, error)
	GetLocationByAlias(ctx context.Context, alias string) (database.Location, error)
	GetLocationByName(ctx context.Context, cityName string) (database.Location, error)
	ListLocations(ctx context.Context) ([]database.Location, error)
	UpdateAirQualitySample(ctx context.Context, arg database.UpdateAirQualitySampleParams) (database.AirQualitySample, error)
	UpdateCurrentWeather(ctx context.Context, arg database.UpdateCurrentWeatherParams) (database.CurrentWeather, error)
	UpdateForecastSample(ctx context.Context, arg database.UpdateForecastSampleParams) (database.ForecastSample, error)
	UpdateUTCOffset(ctx context.Context, arg database.UpdateUTCOffsetParams) error
}
