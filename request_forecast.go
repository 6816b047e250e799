package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cor0nius/skylens/internal/forecast"
	"github.com/cor0nius/skylens/internal/owm"
)

// weatherClient is the subset of owm.Client the service calls.
type weatherClient interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (owm.CurrentWeatherResponse, error)
	Forecast(ctx context.Context, lat, lon float64) (owm.ForecastResponse, error)
	AirPollutionHistory(ctx context.Context, lat, lon float64, start, end time.Time) (owm.AirPollutionResponse, error)
	AirPollutionForecast(ctx context.Context, lat, lon float64) (owm.AirPollutionResponse, error)
	Tile(ctx context.Context, layer string, z, x, y int) ([]byte, error)
}

// The request... functions are the entry points for fetching one kind of data
// from the provider. They decode the payload at the boundary and record the
// location's UTC offset when the provider reports it.

func (cfg *apiConfig) requestCurrentWeather(ctx context.Context, location Location) ([]CurrentWeather, error) {
	resp, err := cfg.weather.CurrentWeather(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return nil, fmt.Errorf("current weather request failed: %w", err)
	}

	location = cfg.updateUTCOffset(ctx, location, resp.Timezone)

	weather, err := parseCurrentWeather(resp, location, cfg.now())
	if err != nil {
		return nil, err
	}
	return []CurrentWeather{weather}, nil
}

func (cfg *apiConfig) requestForecast(ctx context.Context, location Location) ([]forecast.Sample, error) {
	resp, err := cfg.weather.Forecast(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}

	cfg.updateUTCOffset(ctx, location, resp.City.Timezone)

	return parseForecastSamples(resp, cfg.logger), nil
}

// requestAirQuality fetches the recent history and the forecast in parallel and
// merges them into one ascending series. One of the two may fail.
func (cfg *apiConfig) requestAirQuality(ctx context.Context, location Location) ([]forecast.AirQualitySample, error) {
	end := cfg.now()
	start := end.Add(-cfg.aqiHistory)

	fetchers := map[string]func(context.Context) ([]forecast.AirQualitySample, error){
		"history": func(ctx context.Context) ([]forecast.AirQualitySample, error) {
			resp, err := cfg.weather.AirPollutionHistory(ctx, location.Latitude, location.Longitude, start, end)
			if err != nil {
				return nil, err
			}
			return parseAirQualitySamples(resp, cfg.logger), nil
		},
		"forecast": func(ctx context.Context) ([]forecast.AirQualitySample, error) {
			resp, err := cfg.weather.AirPollutionForecast(ctx, location.Latitude, location.Longitude)
			if err != nil {
				return nil, err
			}
			return parseAirQualitySamples(resp, cfg.logger), nil
		},
	}

	results, err := processRequests(cfg, ctx, fetchers)
	if err != nil {
		return nil, fmt.Errorf("air quality request failed: %w", err)
	}

	// Observed history wins over the forecast where both cover an hour.
	return forecast.MergeAirQuality(results["history"], results["forecast"]), nil
}
