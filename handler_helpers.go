package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cor0nius/skylens/internal/owm"
	"github.com/go-playground/validator/v10"
)

// customValidations are the struct tags the service adds to the validator.
var customValidations = map[string]validator.Func{
	"maplayer": func(fl validator.FieldLevel) bool {
		return isKnownLayer(fl.Field().String())
	},
}

// newValidator returns a validator with the service's custom tags registered.
func newValidator() (*validator.Validate, error) {
	v := validator.New()
	for tag, fn := range customValidations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("could not register %q validation: %w", tag, err)
		}
	}
	return v, nil
}

type dailyQuery struct {
	Days int `validate:"min=1,max=5"`
}

type hourlyQuery struct {
	Window int `validate:"min=1,max=40"`
}

type tileRequest struct {
	Layer string `validate:"required,maplayer"`
	Z     int    `validate:"gte=0,lte=18"`
	X     int    `validate:"gte=0"`
	Y     int    `validate:"gte=0"`
}

// queryInt reads an integer query parameter, returning fallback when it is
// absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return n, nil
}

// parseDays reads and validates the days parameter of the daily forecast.
func (cfg *apiConfig) parseDays(r *http.Request) (int, error) {
	days, err := queryInt(r, "days", cfg.forecastDays)
	if err != nil {
		return 0, err
	}
	if err := cfg.validate.Struct(dailyQuery{Days: days}); err != nil {
		return 0, fmt.Errorf("days must be between 1 and 5: %w", err)
	}
	return days, nil
}

// parseWindow reads and validates the window parameter of the hourly forecast.
func (cfg *apiConfig) parseWindow(r *http.Request) (int, error) {
	window, err := queryInt(r, "window", cfg.hourlyWindow)
	if err != nil {
		return 0, err
	}
	if err := cfg.validate.Struct(hourlyQuery{Window: window}); err != nil {
		return 0, fmt.Errorf("window must be between 1 and 40: %w", err)
	}
	return window, nil
}

// parseTileRequest reads /tiles/{layer}/{z}/{x}/{y}. The y segment may carry a
// .png suffix. x and y must fit the zoom level's 2^z grid.
func (cfg *apiConfig) parseTileRequest(r *http.Request) (tileRequest, error) {
	tile := tileRequest{Layer: r.PathValue("layer")}

	var err error
	if tile.Z, err = strconv.Atoi(r.PathValue("z")); err != nil {
		return tileRequest{}, fmt.Errorf("invalid zoom: %w", err)
	}
	if tile.X, err = strconv.Atoi(r.PathValue("x")); err != nil {
		return tileRequest{}, fmt.Errorf("invalid x: %w", err)
	}
	if tile.Y, err = strconv.Atoi(strings.TrimSuffix(r.PathValue("y"), ".png")); err != nil {
		return tileRequest{}, fmt.Errorf("invalid y: %w", err)
	}

	if err := cfg.validate.Struct(tile); err != nil {
		return tileRequest{}, fmt.Errorf("invalid tile request: %w", err)
	}
	if n := 1 << tile.Z; tile.X >= n || tile.Y >= n {
		return tileRequest{}, fmt.Errorf("tile %d/%d outside zoom level %d", tile.X, tile.Y, tile.Z)
	}
	return tile, nil
}

// locationErrorStatus maps a location resolution failure to an HTTP status.
func locationErrorStatus(err error) int {
	switch {
	case errors.Is(err, errInvalidLocationQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoResultsFound):
		return http.StatusNotFound
	default:
		return upstreamErrorStatus(err)
	}
}

// upstreamErrorStatus maps a data fetch failure to an HTTP status.
func upstreamErrorStatus(err error) int {
	switch {
	case errors.Is(err, owm.ErrRateLimited), errors.Is(err, owm.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, owm.ErrServer):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
