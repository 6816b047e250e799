package main

import (
	"net/http"
	"sync"

	"github.com/cor0nius/skylens/internal/forecast"
)

// The data handlers share one flow: check the method, resolve the location,
// fetch through the cache layers, shape the result and respond with JSON.

// @Summary      Get the weather dashboard
// @Description  Returns everything the dashboard displays for a location: current conditions,
// @Description  the daily summary, the hourly window with aligned air quality, the latest AQI
// @Description  with its severity, and the map overlay catalog. Without parameters the
// @Description  configured default coordinates are used.
// @Tags         weather
// @Produce      json
// @Param        city query     string  false  "Location name to search for (e.g., 'Kolkata')"
// @Param        lat  query     number  false  "Latitude for the location (e.g., 22.5726)"
// @Param        lon  query     number  false  "Longitude for the location (e.g., 88.3639)"
// @Success      200  {object}  Dashboard
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid location parameters"
// @Failure      404  {object}  ErrorResponse "Not Found - Location could not be geocoded"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to retrieve weather data"
// @Router       /api/dashboard [get]
func (cfg *apiConfig) handlerDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	location, err := cfg.getLocationFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, locationErrorStatus(err), "Error getting location data", err)
		return
	}
	cfg.logger.Debug("dashboard request", "city", location.CityName)

	dashboard, err := cfg.buildDashboard(r.Context(), location)
	if err != nil {
		cfg.respondWithError(w, upstreamErrorStatus(err), "Error building dashboard", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, dashboard)
}

// @Summary      Get current weather
// @Description  Retrieves the current weather conditions for a specified location.
// @Tags         weather
// @Produce      json
// @Param        city query     string  false  "Location name to search for (e.g., 'Kolkata')"
// @Param        lat  query     number  false  "Latitude for the location (e.g., 22.5726)"
// @Param        lon  query     number  false  "Longitude for the location (e.g., 88.3639)"
// @Success      200  {object}  CurrentWeatherResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid location parameters"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to retrieve weather data"
// @Router       /api/currentweather [get]
func (cfg *apiConfig) handlerCurrentWeather(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	location, err := cfg.getLocationFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, locationErrorStatus(err), "Error getting location data", err)
		return
	}
	cfg.logger.Debug("current weather request", "city", location.CityName)

	weather, err := cfg.getCachedOrFetchCurrentWeather(ctx, location)
	if err != nil {
		cfg.respondWithError(w, upstreamErrorStatus(err), "Error getting current weather data", err)
		return
	}
	if len(weather) == 0 {
		cfg.respondWithError(w, http.StatusInternalServerError, "Error getting current weather data", nil)
		return
	}

	response := CurrentWeatherResponse{
		Location: location,
		Weather:  currentToJSON(weather[0], location.Zone()),
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get daily forecast
// @Description  Retrieves one representative forecast entry per calendar day, in the location's
// @Description  local time.
// @Tags         weather
// @Produce      json
// @Param        city query     string  false  "Location name to search for (e.g., 'Kolkata')"
// @Param        lat  query     number  false  "Latitude for the location (e.g., 22.5726)"
// @Param        lon  query     number  false  "Longitude for the location (e.g., 88.3639)"
// @Param        days query     int     false  "Number of days, 1 to 5"
// @Success      200  {object}  DailyForecastResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid parameters"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to retrieve forecast data"
// @Router       /api/dailyforecast [get]
func (cfg *apiConfig) handlerDailyForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	days, err := cfg.parseDays(r)
	if err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid days parameter", err)
		return
	}

	location, err := cfg.getLocationFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, locationErrorStatus(err), "Error getting location data", err)
		return
	}
	cfg.logger.Debug("daily forecast request", "city", location.CityName, "days", days)

	samples, err := cfg.getCachedOrFetchForecast(ctx, location)
	if err != nil {
		cfg.respondWithError(w, upstreamErrorStatus(err), "Error getting daily forecast data", err)
		return
	}
	location = cfg.withStoredOffset(ctx, location)
	zone := location.Zone()

	response := DailyForecastResponse{
		Location:  location,
		Forecasts: dailyToJSON(forecast.BuildDailySummaryIn(samples, days, zone), zone),
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get hourly forecast
// @Description  Retrieves the forecast entries around the current time, each with the air quality
// @Description  index closest to it.
// @Tags         weather
// @Produce      json
// @Param        city   query     string  false  "Location name to search for (e.g., 'Kolkata')"
// @Param        lat    query     number  false  "Latitude for the location (e.g., 22.5726)"
// @Param        lon    query     number  false  "Longitude for the location (e.g., 88.3639)"
// @Param        window query     int     false  "Number of entries, 1 to 40"
// @Success      200  {object}  HourlyForecastResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid parameters"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to retrieve forecast data"
// @Router       /api/hourlyforecast [get]
func (cfg *apiConfig) handlerHourlyForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	window, err := cfg.parseWindow(r)
	if err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid window parameter", err)
		return
	}

	location, err := cfg.getLocationFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, locationErrorStatus(err), "Error getting location data", err)
		return
	}
	cfg.logger.Debug("hourly forecast request", "city", location.CityName, "window", window)

	var wg sync.WaitGroup
	var samples []forecast.Sample
	var forecastErr error
	var airQuality []forecast.AirQualitySample
	var aqErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		samples, forecastErr = cfg.getCachedOrFetchForecast(ctx, location)
	}()
	go func() {
		defer wg.Done()
		airQuality, aqErr = cfg.getCachedOrFetchAirQuality(ctx, location)
	}()
	wg.Wait()

	if forecastErr != nil {
		cfg.respondWithError(w, upstreamErrorStatus(forecastErr), "Error getting hourly forecast data", forecastErr)
		return
	}
	if aqErr != nil {
		cfg.logger.Warn("air quality unavailable, continuing without it", "city", location.CityName, "error", aqErr)
		airQuality = nil
	}
	location = cfg.withStoredOffset(ctx, location)

	response := HourlyForecastResponse{
		Location:  location,
		Forecasts: hourlyForecast(samples, airQuality, cfg.now(), window, location.Zone()),
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get air quality
// @Description  Retrieves the merged air quality history and forecast for a location, with the
// @Description  latest index and its severity.
// @Tags         weather
// @Produce      json
// @Param        city query     string  false  "Location name to search for (e.g., 'Kolkata')"
// @Param        lat  query     number  false  "Latitude for the location (e.g., 22.5726)"
// @Param        lon  query     number  false  "Longitude for the location (e.g., 88.3639)"
// @Success      200  {object}  AirQualityResponse
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid location parameters"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to retrieve air quality data"
// @Router       /api/airquality [get]
func (cfg *apiConfig) handlerAirQuality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	location, err := cfg.getLocationFromRequest(r)
	if err != nil {
		cfg.respondWithError(w, locationErrorStatus(err), "Error getting location data", err)
		return
	}
	cfg.logger.Debug("air quality request", "city", location.CityName)

	samples, err := cfg.getCachedOrFetchAirQuality(ctx, location)
	if err != nil {
		cfg.respondWithError(w, upstreamErrorStatus(err), "Error getting air quality data", err)
		return
	}

	response := AirQualityResponse{
		Location:   location,
		AirQuality: airQualityToJSON(forecast.LatestAqiAt(samples, cfg.now().Unix())),
		Samples:    airQualitySamplesToJSON(samples),
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}

// @Summary      Get map layers
// @Description  Lists the weather overlays the map can draw, with tile path templates served by
// @Description  the tile proxy, and the default map center.
// @Tags         map
// @Produce      json
// @Success      200  {object}  MapLayersResponse
// @Router       /api/maplayers [get]
func (cfg *apiConfig) handlerMapLayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, MapLayersResponse{
		Center:    [2]float64{cfg.defaultLat, cfg.defaultLon},
		Zoom:      defaultMapZoom,
		MapLayers: WrapMapLayers(),
	})
}

// @Summary      Get a map tile
// @Description  Proxies one PNG tile of a weather overlay. Tiles are cached in Redis.
// @Tags         map
// @Produce      png
// @Param        layer path  string  true  "Overlay layer (temp_new, precipitation_new, clouds_new)"
// @Param        z     path  int     true  "Zoom level, 0 to 18"
// @Param        x     path  int     true  "Tile column"
// @Param        y     path  int     true  "Tile row, optionally with a .png suffix"
// @Success      200
// @Failure      400  {object}  ErrorResponse "Bad Request - Invalid tile coordinates or layer"
// @Failure      502  {object}  ErrorResponse "Bad Gateway - Tile server error"
// @Router       /tiles/{layer}/{z}/{x}/{y} [get]
func (cfg *apiConfig) handlerTile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	tile, err := cfg.parseTileRequest(r)
	if err != nil {
		cfg.respondWithError(w, http.StatusBadRequest, "Invalid tile request", err)
		return
	}

	data, err := cfg.getCachedOrFetchTile(r.Context(), tile)
	if err != nil {
		cfg.respondWithError(w, upstreamErrorStatus(err), "Error getting map tile", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=1800")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		cfg.logger.Error("error writing tile", "error", err)
	}
}

// handlerResetDB wipes the database and the Redis cache. Deleting all
// locations cascades to every stored sample.

// @Summary      Reset database and cache (development only)
// @Description  Completely wipes the database and Redis cache. This endpoint is intended for
// @Description  development and testing purposes only.
// @Tags         development
// @Produce      json
// @Success      200  {object}  map[string]string "Confirmation of reset. Example: `{\"status\":\"database and cache reset\"}`"
// @Failure      500  {object}  ErrorResponse "Internal Server Error - Failed to reset database or cache"
// @Router       /dev/reset-db [post]
func (cfg *apiConfig) handlerResetDB(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	cfg.logger.Debug("database reset request received")

	ctx := r.Context()

	if err := cfg.dbQueries.DeleteAllLocations(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	if err := cfg.cache.Flush(ctx); err != nil {
		cfg.respondWithError(w, http.StatusInternalServerError, "Failed to flush cache", err)
		return
	}

	latestAQI.Reset()
	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "database and cache reset"})
}

// @Summary      Manually trigger scheduler jobs (development only)
// @Description  Triggers a run of the current weather, forecast and air quality refresh jobs
// @Description  for every tracked location.
// @Tags         development
// @Produce      json
// @Success      202  {object}  map[string]string "Confirmation of triggering. Example:`{\"status\": \"scheduler jobs triggered\"}`"
// @Router       /dev/runschedulerjobs [post]
func (s *Scheduler) handlerRunSchedulerJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	s.cfg.logger.Info("manual scheduler run triggered")

	go s.RunAll()

	s.cfg.respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "scheduler jobs triggered"})
}

// @Summary      Get application configuration
// @Description  Provides client-side applications with the development mode flag, the refresh
// @Description  intervals and the dashboard sizes.
// @Tags         configuration
// @Produce      json
// @Success      200  {object}  ConfigResponse
// @Router       /api/config [get]
func (cfg *apiConfig) handlerConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cfg.respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	response := ConfigResponse{
		DevMode:            cfg.devMode,
		CurrentInterval:    cfg.schedulerCurrentInterval.String(),
		ForecastInterval:   cfg.schedulerForecastInterval.String(),
		AirQualityInterval: cfg.schedulerAirQualityInterval.String(),
		ForecastDays:       cfg.forecastDays,
		HourlyWindow:       cfg.hourlyWindow,
	}

	cfg.respondWithJSON(w, http.StatusOK, response)
}
