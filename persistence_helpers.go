package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cor0nius/skylens/internal/database"
	"github.com/cor0nius/skylens/internal/forecast"
)

// upsertWeatherItem looks an item up and either updates the existing row or
// creates a new one. Failures are logged, not returned: persistence is a cache
// layer and must not fail a request that already has fresh provider data.
func upsertWeatherItem[D any](
	cfg *apiConfig,
	getItemFunc func() (D, error),
	createItemFunc func() (D, error),
	updateItemFunc func(existing D) (D, error),
	logAttrs ...any,
) bool {
	existing, err := getItemFunc()
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			cfg.logger.Error("error reading stored item", append(logAttrs, "error", err)...)
			return false
		}
		if _, createErr := createItemFunc(); createErr != nil {
			cfg.logger.Error("error creating stored item", append(logAttrs, "error", createErr)...)
			return false
		}
		cfg.logger.Debug("created stored item", logAttrs...)
		return true
	}

	if _, updateErr := updateItemFunc(existing); updateErr != nil {
		cfg.logger.Error("error updating stored item", append(logAttrs, "error", updateErr)...)
		return false
	}
	cfg.logger.Debug("updated stored item", logAttrs...)
	return true
}

func (cfg *apiConfig) persistCurrentWeather(ctx context.Context, location Location, weatherData []CurrentWeather) {
	for _, weather := range weatherData {
		upsertWeatherItem(cfg,
			func() (database.CurrentWeather, error) {
				return cfg.dbQueries.GetCurrentWeatherAtLocation(ctx, location.LocationID)
			},
			func() (database.CurrentWeather, error) {
				return cfg.dbQueries.CreateCurrentWeather(ctx, currentWeatherToCreateCurrentWeatherParams(weather))
			},
			func(existing database.CurrentWeather) (database.CurrentWeather, error) {
				return cfg.dbQueries.UpdateCurrentWeather(ctx, currentWeatherToUpdateCurrentWeatherParams(weather, existing.ID))
			},
			"type", "current weather", "location", location.CityName,
		)
	}
}

func (cfg *apiConfig) persistForecastSamples(ctx context.Context, location Location, samples []forecast.Sample) {
	updatedAt := cfg.now()
	var stored int
	for _, sample := range samples {
		ok := upsertWeatherItem(cfg,
			func() (database.ForecastSample, error) {
				return cfg.dbQueries.GetForecastSampleAtTime(ctx, database.GetForecastSampleAtTimeParams{
					LocationID:   location.LocationID,
					ForecastTime: sample.Time(),
				})
			},
			func() (database.ForecastSample, error) {
				return cfg.dbQueries.CreateForecastSample(ctx, sampleToCreateForecastSampleParams(sample, location.LocationID, updatedAt))
			},
			func(existing database.ForecastSample) (database.ForecastSample, error) {
				return cfg.dbQueries.UpdateForecastSample(ctx, sampleToUpdateForecastSampleParams(sample, existing.ID, updatedAt))
			},
			"type", "forecast sample", "location", location.CityName, "dt", sample.Timestamp,
		)
		if ok {
			stored++
		}
	}
	cfg.logger.Debug("persisted forecast samples", "location", location.CityName, "stored", stored, "total", len(samples))
}

func (cfg *apiConfig) persistAirQualitySamples(ctx context.Context, location Location, samples []forecast.AirQualitySample) {
	updatedAt := cfg.now()
	for _, sample := range samples {
		if !forecast.ValidAqi(sample.AQI) {
			continue
		}
		upsertWeatherItem(cfg,
			func() (database.AirQualitySample, error) {
				return cfg.dbQueries.GetAirQualitySampleAtTime(ctx, database.GetAirQualitySampleAtTimeParams{
					LocationID: location.LocationID,
					SampleTime: sampleTime(sample),
				})
			},
			func() (database.AirQualitySample, error) {
				return cfg.dbQueries.CreateAirQualitySample(ctx, airQualityToCreateAirQualitySampleParams(sample, location.LocationID, updatedAt))
			},
			func(existing database.AirQualitySample) (database.AirQualitySample, error) {
				return cfg.dbQueries.UpdateAirQualitySample(ctx, airQualityToUpdateAirQualitySampleParams(sample, existing.ID, updatedAt))
			},
			"type", "air quality sample", "location", location.CityName, "dt", sample.Timestamp,
		)
	}
}

// updateUTCOffset stores a newly reported offset for location. It returns the
// location with the offset applied.
func (cfg *apiConfig) updateUTCOffset(ctx context.Context, location Location, offset int) Location {
	if location.UTCOffset != nil && *location.UTCOffset == offset {
		return location
	}
	err := cfg.dbQueries.UpdateUTCOffset(ctx, database.UpdateUTCOffsetParams{
		ID:               location.LocationID,
		UtcOffsetSeconds: sql.NullInt32{Int32: int32(offset), Valid: true},
	})
	if err != nil {
		cfg.logger.Warn("failed to update utc offset", "location", location.CityName, "error", err)
	}
	location.UTCOffset = &offset
	return location
}

// pruneExpiredSamples removes forecast and air quality rows older than the
// retention window.
func (cfg *apiConfig) pruneExpiredSamples(ctx context.Context) error {
	cutoff := cfg.now().Add(-sampleRetention)
	if err := cfg.dbQueries.DeleteForecastSamplesBefore(ctx, cutoff); err != nil {
		return fmt.Errorf("could not prune forecast samples: %w", err)
	}
	if err := cfg.dbQueries.DeleteAirQualitySamplesBefore(ctx, cutoff); err != nil {
		return fmt.Errorf("could not prune air quality samples: %w", err)
	}
	cfg.logger.LogAttrs(ctx, slog.LevelDebug, "pruned expired samples", slog.Time("cutoff", cutoff))
	return nil
}
