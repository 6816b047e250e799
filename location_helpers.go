package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cor0nius/skylens/internal/database"
	"github.com/redis/go-redis/v9"
)

// errInvalidLocationQuery marks a request whose location parameters failed
// validation.
var errInvalidLocationQuery = errors.New("invalid location query")

// locationQuery holds the location parameters accepted by every data endpoint.
type locationQuery struct {
	City string `validate:"omitempty,max=100"`
	Lat  string `validate:"required_with=Lon,omitempty,latitude"`
	Lon  string `validate:"required_with=Lat,omitempty,longitude"`
}

// getOrCreateLocation resolves a city name to a stored location:
//  1. Look the normalized name up in location_aliases.
//  2. Otherwise geocode it and look the canonical name up in locations,
//     linking the user's input as a new alias.
//  3. Otherwise create the location with aliases for both the user's input
//     and the canonical name.
func (cfg *apiConfig) getOrCreateLocation(ctx context.Context, cityName string) (Location, error) {
	alias, err := normalizeCityName(cityName)
	if err != nil {
		return Location{}, fmt.Errorf("could not normalize city name: %w", err)
	}

	dbLocation, err := cfg.dbQueries.GetLocationByAlias(ctx, alias)
	if err == nil {
		cfg.logger.Debug("location found by alias", "alias", alias, "city", dbLocation.CityName)
		return databaseLocationToLocation(dbLocation), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Location{}, fmt.Errorf("database error when fetching location by alias: %w", err)
	}

	cfg.logger.Debug("alias not found, geocoding", "alias", alias, "original_city", cityName)
	geocodedLocation, geoErr := cfg.geocoder.Geocode(ctx, cityName)
	if geoErr != nil {
		return Location{}, fmt.Errorf("could not geocode city '%s': %w", cityName, geoErr)
	}

	dbLocation, err = cfg.dbQueries.GetLocationByName(ctx, geocodedLocation.CityName)
	if err == nil {
		cfg.logger.Debug("canonical location found in db, creating new alias", "city", dbLocation.CityName, "alias", alias)
		_, aliasErr := cfg.dbQueries.CreateLocationAlias(ctx, database.CreateLocationAliasParams{Alias: alias, LocationID: dbLocation.ID})
		if aliasErr != nil {
			cfg.logger.Warn("could not create location alias", "alias", alias, "location_id", dbLocation.ID, "error", aliasErr)
		}
		return databaseLocationToLocation(dbLocation), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Location{}, fmt.Errorf("database error when fetching location by canonical name: %w", err)
	}

	cfg.logger.Debug("no location found, creating new location and aliases", "city", geocodedLocation.CityName)
	persistedLocation, createErr := cfg.dbQueries.CreateLocation(ctx, locationToCreateLocationParams(geocodedLocation))
	if createErr != nil {
		return Location{}, fmt.Errorf("could not persist new location: %w", createErr)
	}

	_, aliasErr := cfg.dbQueries.CreateLocationAlias(ctx, database.CreateLocationAliasParams{Alias: alias, LocationID: persistedLocation.ID})
	if aliasErr != nil {
		cfg.logger.Warn("could not create user input alias", "alias", alias, "location_id", persistedLocation.ID, "error", aliasErr)
	}

	canonicalAlias, err := normalizeCityName(persistedLocation.CityName)
	if err != nil {
		cfg.logger.Error("could not normalize canonical city name", "city", persistedLocation.CityName, "error", err)
	} else if alias != canonicalAlias {
		_, aliasErr = cfg.dbQueries.CreateLocationAlias(ctx, database.CreateLocationAliasParams{Alias: canonicalAlias, LocationID: persistedLocation.ID})
		if aliasErr != nil {
			cfg.logger.Warn("could not create canonical alias", "alias", canonicalAlias, "location_id", persistedLocation.ID, "error", aliasErr)
		}
	}

	return databaseLocationToLocation(persistedLocation), nil
}

// getLocationFromRequest resolves the location of a request from the city
// parameter, the lat and lon parameters, or the configured default coordinates
// when neither is given.
func (cfg *apiConfig) getLocationFromRequest(r *http.Request) (Location, error) {
	ctx := r.Context()
	q := locationQuery{
		City: r.URL.Query().Get("city"),
		Lat:  r.URL.Query().Get("lat"),
		Lon:  r.URL.Query().Get("lon"),
	}
	if err := cfg.validate.Struct(q); err != nil {
		return Location{}, fmt.Errorf("%w: %v", errInvalidLocationQuery, err)
	}

	if q.City != "" {
		return cfg.getOrCreateLocation(ctx, q.City)
	}

	lat, lon := cfg.defaultLat, cfg.defaultLon
	if q.Lat != "" {
		var err error
		if lat, err = strconv.ParseFloat(q.Lat, 64); err != nil {
			return Location{}, fmt.Errorf("%w: invalid latitude: %v", errInvalidLocationQuery, err)
		}
		if lon, err = strconv.ParseFloat(q.Lon, 64); err != nil {
			return Location{}, fmt.Errorf("%w: invalid longitude: %v", errInvalidLocationQuery, err)
		}
	}

	location, err := cfg.reverseGeocodeCached(ctx, lat, lon)
	if err != nil {
		return Location{}, fmt.Errorf("could not reverse geocode coordinates: %w", err)
	}

	return cfg.getOrCreateLocation(ctx, location.CityName)
}

// reverseGeocodeCached memoizes reverse geocoding in Redis. Coordinates are
// rounded to two decimals, about a kilometre, before building the key.
func (cfg *apiConfig) reverseGeocodeCached(ctx context.Context, lat, lon float64) (Location, error) {
	cacheKey := reverseGeocodeCacheKey(lat, lon)
	cachedData, err := cfg.cache.Get(ctx, cacheKey)
	if err == nil {
		var location Location
		if jsonErr := json.Unmarshal([]byte(cachedData), &location); jsonErr == nil && location.CityName != "" {
			cfg.logger.Debug("cache hit", "key", cacheKey)
			return location, nil
		}
		cfg.logger.Warn("invalid cache entry", "key", cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		cfg.logger.Warn("error getting from redis", "key", cacheKey, "error", err)
	}

	location, err := cfg.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return Location{}, err
	}
	if cacheErr := cfg.cache.Set(ctx, cacheKey, location, reverseGeocodeCacheTTL); cacheErr != nil {
		cfg.logger.Warn("error setting to redis", "key", cacheKey, "error", cacheErr)
	}
	return location, nil
}
