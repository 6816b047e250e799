package main

import (
	"time"

	"github.com/cor0nius/skylens/internal/forecast"
	"github.com/google/uuid"
)

type Location struct {
	LocationID  uuid.UUID `json:"location_id"`
	CityName    string    `json:"city_name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CountryCode string    `json:"country_code"`
	// UTCOffset is the provider-reported offset in seconds, nil until the
	// first forecast for the location has been fetched.
	UTCOffset *int `json:"utc_offset_seconds,omitempty"`
}

// Zone returns the fixed zone of the location, or UTC when the offset is unknown.
func (l Location) Zone() *time.Location {
	if l.UTCOffset == nil {
		return time.UTC
	}
	return time.FixedZone("", *l.UTCOffset)
}

type CurrentWeather struct {
	Location     Location  `json:"-"`
	ObservedAt   time.Time `json:"observed_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	TemperatureC float64   `json:"temperature_c"`
	FeelsLikeC   float64   `json:"feels_like_c"`
	Humidity     int32     `json:"humidity"`
	PressureHPa  int32     `json:"pressure_hpa"`
	VisibilityM  int32     `json:"visibility_m"`
	Condition    string    `json:"condition"`
	IconCode     string    `json:"icon_code"`
}

type CurrentWeatherJSON struct {
	ObservedAt   string           `json:"observed_at"`
	TemperatureC float64          `json:"temperature_c"`
	Temperature  int              `json:"temperature"`
	FeelsLikeC   float64          `json:"feels_like_c"`
	Humidity     int32            `json:"humidity"`
	PressureHPa  int32            `json:"pressure_hpa"`
	VisibilityKm float64          `json:"visibility_km"`
	Condition    string           `json:"condition"`
	Icon         forecast.IconKey `json:"icon"`
	Glyph        string           `json:"glyph"`
}

type DailySummaryJSON struct {
	Day         string           `json:"day"`
	Weekday     string           `json:"weekday"`
	Temperature int              `json:"temperature"`
	Condition   string           `json:"condition"`
	Icon        forecast.IconKey `json:"icon"`
	Glyph       string           `json:"glyph"`
}

type HourlyEntryJSON struct {
	Timestamp   int64            `json:"dt"`
	Label       string           `json:"label"`
	Temperature int              `json:"temperature"`
	Icon        forecast.IconKey `json:"icon"`
	Glyph       string           `json:"glyph"`
	AQI         int              `json:"aqi"`
	AQIChart    int              `json:"aqi_chart"`
}

type AirQualityJSON struct {
	Latest     int               `json:"latest"`
	Severity   forecast.Severity `json:"severity"`
	Color      string            `json:"color"`
	ChartValue int               `json:"chart_value"`
}

type AirQualitySampleJSON struct {
	Timestamp int64 `json:"dt"`
	AQI       int   `json:"aqi"`
}

type Dashboard struct {
	Location    Location           `json:"location"`
	GeneratedAt string             `json:"generated_at"`
	Current     CurrentWeatherJSON `json:"current"`
	Daily       []DailySummaryJSON `json:"daily"`
	Hourly      []HourlyEntryJSON  `json:"hourly"`
	AirQuality  AirQualityJSON     `json:"air_quality"`
	MapLayers   []MapLayer         `json:"map_layers"`
}

type CurrentWeatherResponse struct {
	Location Location           `json:"location"`
	Weather  CurrentWeatherJSON `json:"weather"`
}

type DailyForecastResponse struct {
	Location  Location           `json:"location"`
	Forecasts []DailySummaryJSON `json:"forecasts"`
}

type HourlyForecastResponse struct {
	Location  Location          `json:"location"`
	Forecasts []HourlyEntryJSON `json:"forecasts"`
}

type AirQualityResponse struct {
	Location   Location               `json:"location"`
	AirQuality AirQualityJSON         `json:"air_quality"`
	Samples    []AirQualitySampleJSON `json:"samples"`
}

type MapLayersResponse struct {
	Center    [2]float64 `json:"center"`
	Zoom      int        `json:"zoom"`
	MapLayers []MapLayer `json:"map_layers"`
}

type ConfigResponse struct {
	DevMode            bool   `json:"dev_mode"`
	CurrentInterval    string `json:"current_interval"`
	ForecastInterval   string `json:"forecast_interval"`
	AirQualityInterval string `json:"air_quality_interval"`
	ForecastDays       int    `json:"forecast_days"`
	HourlyWindow       int    `json:"hourly_window"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
