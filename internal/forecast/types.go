// Package forecast shapes a fixed-interval forecast feed and an independently
// timestamped air-quality series into the values the dashboard displays: a
// per-day summary, a short hourly window around "now" and an AQI series aligned
// to that window.
//
// Every function in this package is pure. Callers fetch and decode provider data
// first, then hand plain slices in and get plain slices back.
package forecast

import "time"

// Sample is one entry of the provider's 3-hour forecast feed, normalized at the
// decode boundary.
type Sample struct {
	Timestamp    int64   `json:"dt"`
	TemperatureC float64 `json:"temp_c"`
	IconCode     string  `json:"icon_code"`
	Condition    string  `json:"condition"`
}

// Time returns the sample timestamp as a UTC time.
func (s Sample) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// AirQualitySample is one entry of the hourly air-quality feed.
type AirQualitySample struct {
	Timestamp int64 `json:"dt"`
	AQI       int   `json:"aqi"`
}

// DailySummary is the representative sample for one calendar day.
type DailySummary struct {
	DayKey string `json:"day"`
	Sample Sample `json:"sample"`
}

// HourlyEntry is a display-ready element of the hourly window.
type HourlyEntry struct {
	Timestamp    int64   `json:"dt"`
	Label        string  `json:"label"`
	TemperatureC int     `json:"temp_c"`
	Icon         IconKey `json:"icon"`
}

// DayKeyLayout is the layout of DailySummary.DayKey.
const DayKeyLayout = "2006-01-02"
