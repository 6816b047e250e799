package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cor0nius/skylens/internal/forecast"
)

const observedAtLayout = "2006-01-02 15:04"

// dashboardInputs are the resolved provider inputs of one dashboard.
type dashboardInputs struct {
	current    CurrentWeather
	samples    []forecast.Sample
	airQuality []forecast.AirQualitySample
}

// fetchDashboardInputs fetches current weather, the forecast feed and the air
// quality series concurrently. A failed air quality fetch leaves the series
// empty; the other two are required.
func (cfg *apiConfig) fetchDashboardInputs(ctx context.Context, location Location) (dashboardInputs, error) {
	var wg sync.WaitGroup
	var inputs dashboardInputs
	var current []CurrentWeather
	var currentErr, forecastErr, aqErr error

	wg.Add(3)
	go func() {
		defer wg.Done()
		current, currentErr = cfg.getCachedOrFetchCurrentWeather(ctx, location)
	}()
	go func() {
		defer wg.Done()
		inputs.samples, forecastErr = cfg.getCachedOrFetchForecast(ctx, location)
	}()
	go func() {
		defer wg.Done()
		inputs.airQuality, aqErr = cfg.getCachedOrFetchAirQuality(ctx, location)
	}()
	wg.Wait()

	if err := errors.Join(currentErr, forecastErr); err != nil {
		return dashboardInputs{}, err
	}
	if len(current) == 0 {
		return dashboardInputs{}, fmt.Errorf("no current weather for %s", location.CityName)
	}
	inputs.current = current[0]

	if aqErr != nil {
		cfg.logger.Warn("air quality unavailable, continuing without it", "city", location.CityName, "error", aqErr)
		inputs.airQuality = nil
	}
	return inputs, nil
}

// withStoredOffset reloads a location whose UTC offset was unknown when the
// request started, so that a fetch that just learned it is reflected in the
// day keys.
func (cfg *apiConfig) withStoredOffset(ctx context.Context, location Location) Location {
	if location.UTCOffset != nil {
		return location
	}
	dbLocation, err := cfg.dbQueries.GetLocationByName(ctx, location.CityName)
	if err != nil {
		cfg.logger.Debug("could not reload location offset", "city", location.CityName, "error", err)
		return location
	}
	return databaseLocationToLocation(dbLocation)
}

// buildDashboard assembles the full dashboard payload for location.
func (cfg *apiConfig) buildDashboard(ctx context.Context, location Location) (Dashboard, error) {
	inputs, err := cfg.fetchDashboardInputs(ctx, location)
	if err != nil {
		return Dashboard{}, err
	}
	location = cfg.withStoredOffset(ctx, location)

	dashboard := assembleDashboard(location, cfg.now(), inputs, cfg.forecastDays, cfg.hourlyWindow)
	if forecast.ValidAqi(dashboard.AirQuality.Latest) {
		latestAQI.WithLabelValues(location.CityName).Set(float64(dashboard.AirQuality.Latest))
	}
	return dashboard, nil
}

// assembleDashboard turns resolved inputs into the display payload. It holds
// no state; the same inputs always yield the same dashboard.
func assembleDashboard(location Location, now time.Time, inputs dashboardInputs, days, window int) Dashboard {
	zone := location.Zone()
	latest := forecast.LatestAqiAt(inputs.airQuality, now.Unix())

	return Dashboard{
		Location:    location,
		GeneratedAt: now.In(zone).Format(time.RFC3339),
		Current:     currentToJSON(inputs.current, zone),
		Daily:       dailyToJSON(forecast.BuildDailySummaryIn(inputs.samples, days, zone), zone),
		Hourly:      hourlyForecast(inputs.samples, inputs.airQuality, now, window, zone),
		AirQuality:  airQualityToJSON(latest),
		MapLayers:   WrapMapLayers(),
	}
}

// hourlyForecast builds the hourly window around now with an AQI value
// aligned to each entry. Entries with no nearby air quality sample show the
// AQI observed most recently at now.
func hourlyForecast(samples []forecast.Sample, airQuality []forecast.AirQualitySample, now time.Time, window int, zone *time.Location) []HourlyEntryJSON {
	hourly := forecast.BuildHourlyWindow(samples, now.Unix(), window)
	aligned := forecast.AlignAirQuality(hourly, airQuality, forecast.LatestAqiAt(airQuality, now.Unix()))
	return hourlyToJSON(forecast.HourlyEntries(hourly, zone), aligned)
}

func currentToJSON(w CurrentWeather, zone *time.Location) CurrentWeatherJSON {
	icon := forecast.MapWeatherIconKey(w.IconCode)
	return CurrentWeatherJSON{
		ObservedAt:   w.ObservedAt.In(zone).Format(observedAtLayout),
		TemperatureC: w.TemperatureC,
		Temperature:  forecast.RoundTemperature(w.TemperatureC),
		FeelsLikeC:   w.FeelsLikeC,
		Humidity:     w.Humidity,
		PressureHPa:  w.PressureHPa,
		VisibilityKm: float64(w.VisibilityM) / 1000,
		Condition:    w.Condition,
		Icon:         icon,
		Glyph:        icon.FontAwesome(),
	}
}

func dailyToJSON(summaries []forecast.DailySummary, zone *time.Location) []DailySummaryJSON {
	daily := make([]DailySummaryJSON, len(summaries))
	for i, d := range summaries {
		icon := forecast.MapWeatherIconKey(d.Sample.IconCode)
		daily[i] = DailySummaryJSON{
			Day:         d.DayKey,
			Weekday:     d.Sample.Time().In(zone).Format("Mon"),
			Temperature: forecast.RoundTemperature(d.Sample.TemperatureC),
			Condition:   d.Sample.Condition,
			Icon:        icon,
			Glyph:       icon.FontAwesome(),
		}
	}
	return daily
}

// hourlyToJSON zips display entries with their aligned AQI values. Both slices
// come from the same window and have equal length.
func hourlyToJSON(entries []forecast.HourlyEntry, aligned []int) []HourlyEntryJSON {
	hourly := make([]HourlyEntryJSON, len(entries))
	for i, e := range entries {
		aqi := forecast.AQIUnknown
		if i < len(aligned) {
			aqi = aligned[i]
		}
		hourly[i] = HourlyEntryJSON{
			Timestamp:   e.Timestamp,
			Label:       e.Label,
			Temperature: e.TemperatureC,
			Icon:        e.Icon,
			Glyph:       e.Icon.FontAwesome(),
			AQI:         aqi,
			AQIChart:    forecast.ChartValue(aqi),
		}
	}
	return hourly
}

func airQualityToJSON(latest int) AirQualityJSON {
	severity := forecast.ClassifyAqiSeverity(latest)
	return AirQualityJSON{
		Latest:     latest,
		Severity:   severity,
		Color:      severity.Color(),
		ChartValue: forecast.ChartValue(latest),
	}
}

func airQualitySamplesToJSON(samples []forecast.AirQualitySample) []AirQualitySampleJSON {
	out := make([]AirQualitySampleJSON, len(samples))
	for i, s := range samples {
		out[i] = AirQualitySampleJSON{Timestamp: s.Timestamp, AQI: s.AQI}
	}
	return out
}
