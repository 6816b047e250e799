package main

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/cor0nius/skylens/internal/forecast"
	"github.com/cor0nius/skylens/internal/owm"
)

var errMissingMainBlock = errors.New("current weather response has no main block")

// parseCurrentWeather converts the provider's current conditions. A missing
// observation time falls back to fetchedAt.
func parseCurrentWeather(resp owm.CurrentWeatherResponse, location Location, fetchedAt time.Time) (CurrentWeather, error) {
	if resp.Main == nil {
		return CurrentWeather{}, errMissingMainBlock
	}

	weather := CurrentWeather{
		Location:     location,
		ObservedAt:   fetchedAt.UTC(),
		UpdatedAt:    fetchedAt.UTC(),
		TemperatureC: resp.Main.Temp,
		FeelsLikeC:   resp.Main.FeelsLike,
		Humidity:     int32(resp.Main.Humidity),
		PressureHPa:  int32(resp.Main.Pressure),
	}
	if resp.Dt > 0 {
		weather.ObservedAt = time.Unix(resp.Dt, 0).UTC()
	}
	if resp.Visibility != nil {
		weather.VisibilityM = int32(*resp.Visibility)
	}
	if len(resp.Weather) > 0 {
		weather.Condition = resp.Weather[0].Main
		weather.IconCode = resp.Weather[0].Icon
	}
	return weather, nil
}

// parseForecastSamples normalizes the 3-hour feed. Entries without a
// timestamp, a main block or a weather condition are skipped. The result is
// ascending with unique timestamps.
func parseForecastSamples(resp owm.ForecastResponse, logger *slog.Logger) []forecast.Sample {
	samples := make([]forecast.Sample, 0, len(resp.List))
	var skipped int
	for _, item := range resp.List {
		if item.Dt <= 0 || item.Main == nil || len(item.Weather) == 0 {
			skipped++
			continue
		}
		samples = append(samples, forecast.Sample{
			Timestamp:    item.Dt,
			TemperatureC: item.Main.Temp,
			IconCode:     item.Weather[0].Icon,
			Condition:    item.Weather[0].Main,
		})
	}
	if skipped > 0 {
		logger.Debug("skipped malformed forecast entries", "skipped", skipped, "total", len(resp.List))
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp < samples[j].Timestamp
	})

	unique := samples[:0]
	for i, s := range samples {
		if i > 0 && s.Timestamp == unique[len(unique)-1].Timestamp {
			continue
		}
		unique = append(unique, s)
	}
	return unique
}

// parseAirQualitySamples normalizes an air pollution payload. Entries without a
// timestamp or with a tier outside [1,5] are skipped.
func parseAirQualitySamples(resp owm.AirPollutionResponse, logger *slog.Logger) []forecast.AirQualitySample {
	samples := make([]forecast.AirQualitySample, 0, len(resp.List))
	var skipped int
	for _, item := range resp.List {
		if item.Dt <= 0 || item.Main == nil || !forecast.ValidAqi(item.Main.AQI) {
			skipped++
			continue
		}
		samples = append(samples, forecast.AirQualitySample{Timestamp: item.Dt, AQI: item.Main.AQI})
	}
	if skipped > 0 {
		logger.Debug("skipped malformed air quality entries", "skipped", skipped, "total", len(resp.List))
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp < samples[j].Timestamp
	})
	return samples
}
