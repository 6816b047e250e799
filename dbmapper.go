package main

import (
	"database/sql"
	"time"

	"github.com/cor0nius/skylens/internal/database"
	"github.com/cor0nius/skylens/internal/forecast"
	"github.com/google/uuid"
)

// databaseLocationToLocation converts a database.Location to a Location.
func databaseLocationToLocation(dbLocation database.Location) Location {
	location := Location{
		LocationID:  dbLocation.ID,
		CityName:    dbLocation.CityName,
		Latitude:    dbLocation.Latitude,
		Longitude:   dbLocation.Longitude,
		CountryCode: dbLocation.CountryCode,
	}
	if dbLocation.UtcOffsetSeconds.Valid {
		offset := int(dbLocation.UtcOffsetSeconds.Int32)
		location.UTCOffset = &offset
	}
	return location
}

// locationToCreateLocationParams converts a Location to database.CreateLocationParams.
func locationToCreateLocationParams(location Location) database.CreateLocationParams {
	params := database.CreateLocationParams{
		CityName:    location.CityName,
		Latitude:    location.Latitude,
		Longitude:   location.Longitude,
		CountryCode: location.CountryCode,
	}
	if location.UTCOffset != nil {
		params.UtcOffsetSeconds = sql.NullInt32{Int32: int32(*location.UTCOffset), Valid: true}
	}
	return params
}

// databaseCurrentWeatherToCurrentWeather converts a database.CurrentWeather to a CurrentWeather.
func databaseCurrentWeatherToCurrentWeather(dbWeather database.CurrentWeather, location Location) CurrentWeather {
	return CurrentWeather{
		Location:     location,
		ObservedAt:   dbWeather.ObservedAt.UTC(),
		UpdatedAt:    dbWeather.UpdatedAt.UTC(),
		TemperatureC: dbWeather.TemperatureC,
		FeelsLikeC:   dbWeather.FeelsLikeC,
		Humidity:     dbWeather.Humidity,
		PressureHPa:  dbWeather.PressureHpa,
		VisibilityM:  dbWeather.VisibilityM,
		Condition:    dbWeather.ConditionText,
		IconCode:     dbWeather.IconCode,
	}
}

// currentWeatherToCreateCurrentWeatherParams converts a CurrentWeather to database.CreateCurrentWeatherParams.
func currentWeatherToCreateCurrentWeatherParams(weather CurrentWeather) database.CreateCurrentWeatherParams {
	return database.CreateCurrentWeatherParams{
		LocationID:    weather.Location.LocationID,
		ObservedAt:    weather.ObservedAt,
		UpdatedAt:     weather.UpdatedAt,
		TemperatureC:  weather.TemperatureC,
		FeelsLikeC:    weather.FeelsLikeC,
		Humidity:      weather.Humidity,
		PressureHpa:   weather.PressureHPa,
		VisibilityM:   weather.VisibilityM,
		ConditionText: weather.Condition,
		IconCode:      weather.IconCode,
	}
}

// currentWeatherToUpdateCurrentWeatherParams converts a CurrentWeather to database.UpdateCurrentWeatherParams.
func currentWeatherToUpdateCurrentWeatherParams(weather CurrentWeather, dbWeatherID uuid.UUID) database.UpdateCurrentWeatherParams {
	return database.UpdateCurrentWeatherParams{
		ID:            dbWeatherID,
		ObservedAt:    weather.ObservedAt,
		UpdatedAt:     weather.UpdatedAt,
		TemperatureC:  weather.TemperatureC,
		FeelsLikeC:    weather.FeelsLikeC,
		Humidity:      weather.Humidity,
		PressureHpa:   weather.PressureHPa,
		VisibilityM:   weather.VisibilityM,
		ConditionText: weather.Condition,
		IconCode:      weather.IconCode,
	}
}

// databaseForecastSampleToSample converts a stored forecast row to a feed sample.
func databaseForecastSampleToSample(dbSample database.ForecastSample, _ Location) forecast.Sample {
	return forecast.Sample{
		Timestamp:    dbSample.ForecastTime.Unix(),
		TemperatureC: dbSample.TemperatureC,
		IconCode:     dbSample.IconCode,
		Condition:    dbSample.ConditionText,
	}
}

func sampleToCreateForecastSampleParams(sample forecast.Sample, locationID uuid.UUID, updatedAt time.Time) database.CreateForecastSampleParams {
	return database.CreateForecastSampleParams{
		LocationID:    locationID,
		ForecastTime:  sample.Time(),
		UpdatedAt:     updatedAt,
		TemperatureC:  sample.TemperatureC,
		IconCode:      sample.IconCode,
		ConditionText: sample.Condition,
	}
}

func sampleToUpdateForecastSampleParams(sample forecast.Sample, dbSampleID uuid.UUID, updatedAt time.Time) database.UpdateForecastSampleParams {
	return database.UpdateForecastSampleParams{
		ID:            dbSampleID,
		UpdatedAt:     updatedAt,
		TemperatureC:  sample.TemperatureC,
		IconCode:      sample.IconCode,
		ConditionText: sample.Condition,
	}
}

func sampleTime(sample forecast.AirQualitySample) time.Time {
	return time.Unix(sample.Timestamp, 0).UTC()
}

// databaseAirQualitySampleToSample converts a stored air quality row to a feed sample.
func databaseAirQualitySampleToSample(dbSample database.AirQualitySample, _ Location) forecast.AirQualitySample {
	return forecast.AirQualitySample{
		Timestamp: dbSample.SampleTime.Unix(),
		AQI:       int(dbSample.Aqi),
	}
}

func airQualityToCreateAirQualitySampleParams(sample forecast.AirQualitySample, locationID uuid.UUID, updatedAt time.Time) database.CreateAirQualitySampleParams {
	return database.CreateAirQualitySampleParams{
		LocationID: locationID,
		SampleTime: sampleTime(sample),
		UpdatedAt:  updatedAt,
		Aqi:        int32(sample.AQI),
	}
}

func airQualityToUpdateAirQualitySampleParams(sample forecast.AirQualitySample, dbSampleID uuid.UUID, updatedAt time.Time) database.UpdateAirQualitySampleParams {
	return database.UpdateAirQualitySampleParams{
		ID:        dbSampleID,
		UpdatedAt: updatedAt,
		Aqi:       int32(sample.AQI),
	}
}
