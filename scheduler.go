package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cor0nius/skylens/internal/database"
	"github.com/cor0nius/skylens/internal/forecast"
	"github.com/go-co-op/gocron"
)

// schedulerRunTimeout bounds one refresh cycle across all locations.
const schedulerRunTimeout = 2 * time.Minute

// Scheduler refreshes stored data for every tracked location in the
// background. Each data kind runs as its own gocron job in singleton mode, so
// a slow cycle is never overlapped by the next one.
type Scheduler struct {
	cfg  *apiConfig
	cron *gocron.Scheduler

	// The job bodies are fields so tests can replace them.
	currentWeatherJobs func()
	forecastJobs       func()
	airQualityJobs     func()
}

func NewScheduler(cfg *apiConfig) (*Scheduler, error) {
	s := &Scheduler{
		cfg:  cfg,
		cron: gocron.NewScheduler(time.UTC),
	}
	s.currentWeatherJobs = s.runCurrentWeatherJobs
	s.forecastJobs = s.runForecastJobs
	s.airQualityJobs = s.runAirQualityJobs

	jobs := []struct {
		tag      string
		interval time.Duration
		run      func()
	}{
		{"current", cfg.schedulerCurrentInterval, func() { s.currentWeatherJobs() }},
		{"forecast", cfg.schedulerForecastInterval, func() { s.forecastJobs() }},
		{"airquality", cfg.schedulerAirQualityInterval, func() { s.airQualityJobs() }},
	}
	for _, job := range jobs {
		if job.interval <= 0 {
			return nil, fmt.Errorf("invalid %s interval: %s", job.tag, job.interval)
		}
		_, err := s.cron.Every(job.interval).Tag(job.tag).WaitForSchedule().SingletonMode().Do(job.run)
		if err != nil {
			return nil, fmt.Errorf("could not schedule %s job: %w", job.tag, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunAll runs every job once, concurrently, and waits for them.
func (s *Scheduler) RunAll() {
	s.cfg.logger.Info("starting manual scheduler jobs")
	var wg sync.WaitGroup
	for _, run := range []func(){s.currentWeatherJobs, s.forecastJobs, s.airQualityJobs} {
		wg.Add(1)
		go func(run func()) {
			defer wg.Done()
			run()
		}(run)
	}
	wg.Wait()
	s.cfg.logger.Info("manual scheduler run finished")
}

// runUpdateForLocations applies updateFunc to every stored location
// concurrently. It returns the number of locations updated without error.
func (s *Scheduler) runUpdateForLocations(job string, updateFunc func(context.Context, Location) error) int {
	ctx, cancel := context.WithTimeout(context.Background(), schedulerRunTimeout)
	defer cancel()

	locations, err := s.cfg.dbQueries.ListLocations(ctx)
	if err != nil {
		s.cfg.logger.Error("scheduler failed to list locations", "job", job, "error", err)
		return 0
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var updated int
	for _, dbLocation := range locations {
		wg.Add(1)
		go func(loc database.Location) {
			defer wg.Done()
			location := databaseLocationToLocation(loc)
			if err := updateFunc(ctx, location); err != nil {
				s.cfg.logger.Warn("scheduler update failed", "job", job, "city", location.CityName, "error", err)
				return
			}
			mu.Lock()
			updated++
			mu.Unlock()
		}(dbLocation)
	}
	wg.Wait()
	s.cfg.logger.Info("scheduler cycle completed", "job", job, "locations", len(locations), "updated", updated)
	return updated
}

func (s *Scheduler) runCurrentWeatherJobs() {
	s.runUpdateForLocations("current", func(ctx context.Context, location Location) error {
		weather, err := s.cfg.requestCurrentWeather(ctx, location)
		if err != nil {
			return err
		}
		s.cfg.persistCurrentWeather(ctx, location, weather)
		return nil
	})
}

func (s *Scheduler) runForecastJobs() {
	s.runUpdateForLocations("forecast", func(ctx context.Context, location Location) error {
		samples, err := s.cfg.requestForecast(ctx, location)
		if err != nil {
			return err
		}
		s.cfg.persistForecastSamples(ctx, location, samples)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), schedulerRunTimeout)
	defer cancel()
	if err := s.cfg.pruneExpiredSamples(ctx); err != nil {
		s.cfg.logger.Warn("scheduler failed to prune samples", "error", err)
	}
}

func (s *Scheduler) runAirQualityJobs() {
	s.runUpdateForLocations("airquality", func(ctx context.Context, location Location) error {
		samples, err := s.cfg.requestAirQuality(ctx, location)
		if err != nil {
			return err
		}
		s.cfg.persistAirQualitySamples(ctx, location, samples)
		if latest := forecast.LatestAqiAt(samples, s.cfg.now().Unix()); forecast.ValidAqi(latest) {
			latestAQI.WithLabelValues(location.CityName).Set(float64(latest))
		}
		return nil
	})
}
