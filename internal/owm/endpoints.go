package owm

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// The response types below mirror the parts of the OpenWeatherMap payloads the
// dashboard reads. Optional blocks are pointers so the decode boundary can tell
// a missing block from a zero value.

type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type MainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type CurrentWeatherResponse struct {
	Dt         int64              `json:"dt"`
	Name       string             `json:"name"`
	Timezone   int                `json:"timezone"`
	Main       *MainBlock         `json:"main"`
	Weather    []WeatherCondition `json:"weather"`
	Visibility *int               `json:"visibility"`
	Wind       Wind               `json:"wind"`
	Sys        struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type ForecastItem struct {
	Dt      int64              `json:"dt"`
	Main    *MainBlock         `json:"main"`
	Weather []WeatherCondition `json:"weather"`
	Pop     float64            `json:"pop"`
	DtTxt   string             `json:"dt_txt"`
}

type ForecastCity struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone int    `json:"timezone"`
}

type ForecastResponse struct {
	Cnt  int            `json:"cnt"`
	List []ForecastItem `json:"list"`
	City ForecastCity   `json:"city"`
}

type AirPollutionItem struct {
	Dt   int64 `json:"dt"`
	Main *struct {
		AQI int `json:"aqi"`
	} `json:"main"`
}

type AirPollutionResponse struct {
	List []AirPollutionItem `json:"list"`
}

type GeoResult struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}

func coords(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	return q
}

// CurrentWeather fetches current conditions in metric units.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (CurrentWeatherResponse, error) {
	q := coords(lat, lon)
	q.Set("units", "metric")
	var resp CurrentWeatherResponse
	err := c.getJSON(ctx, "weather", "/data/2.5/weather", q, &resp)
	return resp, err
}

// Forecast fetches the 5 day / 3 hour forecast in metric units.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (ForecastResponse, error) {
	q := coords(lat, lon)
	q.Set("units", "metric")
	var resp ForecastResponse
	err := c.getJSON(ctx, "forecast", "/data/2.5/forecast", q, &resp)
	return resp, err
}

// AirPollutionHistory fetches hourly air quality between start and end in a
// single request.
func (c *Client) AirPollutionHistory(ctx context.Context, lat, lon float64, start, end time.Time) (AirPollutionResponse, error) {
	if end.Before(start) {
		return AirPollutionResponse{}, fmt.Errorf("invalid air pollution range: end %s before start %s", end, start)
	}
	q := coords(lat, lon)
	q.Set("start", strconv.FormatInt(start.Unix(), 10))
	q.Set("end", strconv.FormatInt(end.Unix(), 10))
	var resp AirPollutionResponse
	err := c.getJSON(ctx, "air_pollution_history", "/data/2.5/air_pollution/history", q, &resp)
	return resp, err
}

// AirPollutionForecast fetches the hourly air quality forecast.
func (c *Client) AirPollutionForecast(ctx context.Context, lat, lon float64) (AirPollutionResponse, error) {
	var resp AirPollutionResponse
	err := c.getJSON(ctx, "air_pollution_forecast", "/data/2.5/air_pollution/forecast", coords(lat, lon), &resp)
	return resp, err
}

// GeocodeDirect resolves a free-text place name.
func (c *Client) GeocodeDirect(ctx context.Context, query string, limit int) ([]GeoResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	var resp []GeoResult
	err := c.getJSON(ctx, "geocode_direct", "/geo/1.0/direct", q, &resp)
	return resp, err
}

// GeocodeReverse resolves coordinates to place names.
func (c *Client) GeocodeReverse(ctx context.Context, lat, lon float64, limit int) ([]GeoResult, error) {
	q := coords(lat, lon)
	q.Set("limit", strconv.Itoa(limit))
	var resp []GeoResult
	err := c.getJSON(ctx, "geocode_reverse", "/geo/1.0/reverse", q, &resp)
	return resp, err
}

// Tile fetches one PNG map tile of an overlay layer.
func (c *Client) Tile(ctx context.Context, layer string, z, x, y int) ([]byte, error) {
	u := fmt.Sprintf("%s/%s/%d/%d/%d.png", c.tileURL, url.PathEscape(layer), z, x, y)
	return c.get(ctx, "tile", u, nil)
}
