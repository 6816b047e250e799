package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/cor0nius/skylens/internal/owm"
)

// ErrNoResultsFound is returned when a geocoding query yields no results.
var ErrNoResultsFound = errors.New("no results found for the given query")

// GeocodingService converts between place names and coordinates.
type GeocodingService interface {
	Geocode(ctx context.Context, cityName string) (Location, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (Location, error)
}

// owmGeocoder is the part of owm.Client used for geocoding.
type owmGeocoder interface {
	GeocodeDirect(ctx context.Context, query string, limit int) ([]owm.GeoResult, error)
	GeocodeReverse(ctx context.Context, lat, lon float64, limit int) ([]owm.GeoResult, error)
}

// OwmGeocodingService implements GeocodingService with the OpenWeatherMap
// geocoding API.
type OwmGeocodingService struct {
	client owmGeocoder
}

func NewOwmGeocodingService(client owmGeocoder) *OwmGeocodingService {
	return &OwmGeocodingService{client: client}
}

func (s *OwmGeocodingService) Geocode(ctx context.Context, cityName string) (Location, error) {
	results, err := s.client.GeocodeDirect(ctx, cityName, 1)
	if err != nil {
		return Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	return firstResult(results)
}

func (s *OwmGeocodingService) ReverseGeocode(ctx context.Context, lat, lon float64) (Location, error) {
	results, err := s.client.GeocodeReverse(ctx, lat, lon, 1)
	if err != nil {
		return Location{}, fmt.Errorf("reverse geocoding request failed: %w", err)
	}
	return firstResult(results)
}

// firstResult converts the best match into a Location. Results without a name
// are unusable as canonical locations.
func firstResult(results []owm.GeoResult) (Location, error) {
	if len(results) == 0 || results[0].Name == "" {
		return Location{}, ErrNoResultsFound
	}
	r := results[0]
	name := r.Name
	if en, ok := r.LocalNames["en"]; ok && en != "" {
		name = en
	}
	return Location{
		CityName:    name,
		Latitude:    r.Lat,
		Longitude:   r.Lon,
		CountryCode: r.Country,
	}, nil
}
