package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cor0nius/skylens/internal/database"
	"github.com/cor0nius/skylens/internal/forecast"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Database freshness windows. Redis TTLs are slightly shorter than the
// scheduler intervals so a cached value never outlives the next refresh.
const (
	currentWeatherCacheTTL = 10 * time.Minute
	forecastCacheTTL       = 60 * time.Minute
	airQualityCacheTTL     = 60 * time.Minute

	redisCurrentWeatherCacheTTL = 9 * time.Minute
	redisForecastCacheTTL       = 55 * time.Minute
	redisAirQualityCacheTTL     = 55 * time.Minute

	tileCacheTTL           = 30 * time.Minute
	reverseGeocodeCacheTTL = 24 * time.Hour

	// forecastLookback keeps the feed entry just before "now" available to
	// the hourly window when serving from the database.
	forecastLookback = 3 * time.Hour
	sampleRetention  = 48 * time.Hour
)

type apiModel interface {
	CurrentWeather | forecast.Sample | forecast.AirQualitySample
}

type dbModel interface {
	database.CurrentWeather | database.ForecastSample | database.AirQualitySample
}

// getCachedOrFetch reads through three layers:
//  1. Redis, keyed by prefix and location id.
//  2. PostgreSQL rows updated within dbCacheTTL.
//  3. The provider API, whose result is persisted and written back to Redis.
func getCachedOrFetch[T apiModel, D dbModel](
	cfg *apiConfig,
	ctx context.Context,
	location Location,
	cacheKeyPrefix string,
	dbCacheTTL time.Duration,
	redisCacheTTL time.Duration,
	dbFetcher func(context.Context, uuid.UUID) ([]D, error),
	apiFetcher func(context.Context, Location) ([]T, error),
	persister func(context.Context, Location, []T),
	modelConverter func(D, Location) T,
	getTimestamp func(D) time.Time,
	isValidCache func([]T) bool,
) ([]T, error) {
	cacheKey := fmt.Sprintf("%s:%s", cacheKeyPrefix, location.LocationID.String())
	cachedData, err := cfg.cache.Get(ctx, cacheKey)
	if err == nil {
		var items []T
		jsonErr := json.Unmarshal([]byte(cachedData), &items)
		if jsonErr == nil && isValidCache(items) {
			cfg.logger.Debug("cache hit", "key", cacheKey)
			if weather, ok := any(items).([]CurrentWeather); ok {
				for i := range weather {
					weather[i].Location = location
				}
			}
			return items, nil
		}
		if jsonErr != nil {
			cfg.logger.Warn("invalid cache entry: unmarshal error", "key", cacheKey, "error", jsonErr)
		} else {
			cfg.logger.Warn("invalid cache entry: validation failed", "key", cacheKey, "actual_count", len(items))
		}
	} else if !errors.Is(err, redis.Nil) {
		cfg.logger.Warn("error getting from redis", "key", cacheKey, "error", err)
	}

	dbItems, err := dbFetcher(ctx, location.LocationID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("database error when fetching %s: %w", cacheKeyPrefix, err)
	}

	if err == nil {
		freshSince := cfg.now().Add(-dbCacheTTL)
		var freshItems []T
		for _, dbi := range dbItems {
			if getTimestamp(dbi).After(freshSince) {
				freshItems = append(freshItems, modelConverter(dbi, location))
			}
		}

		if isValidCache(freshItems) {
			cfg.logger.Debug("db cache hit", "key", cacheKey)
			if cacheErr := cfg.cache.Set(ctx, cacheKey, freshItems, redisCacheTTL); cacheErr != nil {
				cfg.logger.Warn("error setting to redis", "key", cacheKey, "error", cacheErr)
			}
			return freshItems, nil
		}
	}

	apiItems, err := apiFetcher(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("could not fetch %s: %w", cacheKeyPrefix, err)
	}
	cfg.logger.Debug("api fetch successful", "key", cacheKey)

	persister(ctx, location, apiItems)
	if cacheErr := cfg.cache.Set(ctx, cacheKey, apiItems, redisCacheTTL); cacheErr != nil {
		cfg.logger.Warn("error setting to redis after api fetch", "key", cacheKey, "error", cacheErr)
	} else {
		cfg.logger.Debug("set to cache", "key", cacheKey)
	}

	return apiItems, nil
}

func (cfg *apiConfig) getCachedOrFetchCurrentWeather(ctx context.Context, location Location) ([]CurrentWeather, error) {
	dbFetcher := func(ctx context.Context, locationID uuid.UUID) ([]database.CurrentWeather, error) {
		row, err := cfg.dbQueries.GetCurrentWeatherAtLocation(ctx, locationID)
		if err != nil {
			return nil, err
		}
		return []database.CurrentWeather{row}, nil
	}

	return getCachedOrFetch(
		cfg,
		ctx,
		location,
		"currentweather",
		currentWeatherCacheTTL,
		redisCurrentWeatherCacheTTL,
		dbFetcher,
		cfg.requestCurrentWeather,
		cfg.persistCurrentWeather,
		databaseCurrentWeatherToCurrentWeather,
		func(d database.CurrentWeather) time.Time {
			return d.UpdatedAt
		},
		func(items []CurrentWeather) bool {
			return len(items) == 1
		},
	)
}

func (cfg *apiConfig) getCachedOrFetchForecast(ctx context.Context, location Location) ([]forecast.Sample, error) {
	dbFetcher := func(ctx context.Context, locationID uuid.UUID) ([]database.ForecastSample, error) {
		return cfg.dbQueries.GetForecastSamplesAtLocation(ctx, database.GetForecastSamplesAtLocationParams{
			LocationID:   locationID,
			ForecastTime: cfg.now().Add(-forecastLookback),
		})
	}

	return getCachedOrFetch(
		cfg,
		ctx,
		location,
		"forecast",
		forecastCacheTTL,
		redisForecastCacheTTL,
		dbFetcher,
		cfg.requestForecast,
		cfg.persistForecastSamples,
		databaseForecastSampleToSample,
		func(d database.ForecastSample) time.Time {
			return d.UpdatedAt
		},
		func(items []forecast.Sample) bool {
			return len(items) > 0
		},
	)
}

func (cfg *apiConfig) getCachedOrFetchAirQuality(ctx context.Context, location Location) ([]forecast.AirQualitySample, error) {
	dbFetcher := func(ctx context.Context, locationID uuid.UUID) ([]database.AirQualitySample, error) {
		return cfg.dbQueries.GetAirQualitySamplesAtLocation(ctx, database.GetAirQualitySamplesAtLocationParams{
			LocationID: locationID,
			SampleTime: cfg.now().Add(-cfg.aqiHistory),
		})
	}

	return getCachedOrFetch(
		cfg,
		ctx,
		location,
		"airquality",
		airQualityCacheTTL,
		redisAirQualityCacheTTL,
		dbFetcher,
		cfg.requestAirQuality,
		cfg.persistAirQualitySamples,
		databaseAirQualitySampleToSample,
		func(d database.AirQualitySample) time.Time {
			return d.UpdatedAt
		},
		func(items []forecast.AirQualitySample) bool {
			return len(items) > 0
		},
	)
}

// getCachedOrFetchTile serves a map tile from Redis or the tile server. Tiles
// are not persisted in the database.
func (cfg *apiConfig) getCachedOrFetchTile(ctx context.Context, tile tileRequest) ([]byte, error) {
	cacheKey := tileCacheKey(tile)
	cachedData, err := cfg.cache.Get(ctx, cacheKey)
	if err == nil {
		var data []byte
		if jsonErr := json.Unmarshal([]byte(cachedData), &data); jsonErr == nil && len(data) > 0 {
			cfg.logger.Debug("cache hit", "key", cacheKey)
			return data, nil
		}
		cfg.logger.Warn("invalid cache entry", "key", cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		cfg.logger.Warn("error getting from redis", "key", cacheKey, "error", err)
	}

	data, err := cfg.weather.Tile(ctx, tile.Layer, tile.Z, tile.X, tile.Y)
	if err != nil {
		return nil, fmt.Errorf("could not fetch tile: %w", err)
	}
	if cacheErr := cfg.cache.Set(ctx, cacheKey, data, tileCacheTTL); cacheErr != nil {
		cfg.logger.Warn("error setting to redis after tile fetch", "key", cacheKey, "error", cacheErr)
	}
	return data, nil
}
