// Package owm is a small OpenWeatherMap client covering the endpoints the
// dashboard needs: current weather, the 3-hour forecast, air pollution history
// and forecast, direct and reverse geocoding, and map tiles.
//
// Outbound calls are rate limited, go through a circuit breaker, and are retried
// with exponential backoff on 429 and 5xx responses.
package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	DefaultTileURL = "https://tile.openweathermap.org/map"
)

var (
	ErrRateLimited   = errors.New("rate limited by provider")
	ErrServer        = errors.New("provider server error")
	ErrUnexpected    = errors.New("unexpected status code")
	ErrCircuitOpen   = errors.New("circuit breaker open")
	ErrMissingAPIKey = errors.New("openweathermap api key is not configured")
)

// Backoff controls retries of retryable failures.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Config holds everything needed to build a Client. Zero values fall back to
// the OpenWeatherMap defaults.
type Config struct {
	APIKey     string
	BaseURL    string
	TileURL    string
	HTTPClient *http.Client
	RPS        float64
	Burst      int
	Backoff    Backoff
	Logger     *slog.Logger
	// Observe, when set, is called with the endpoint name and duration of
	// every upstream attempt.
	Observe func(endpoint string, d time.Duration)
}

// Client talks to the OpenWeatherMap REST and tile APIs.
type Client struct {
	apiKey     string
	baseURL    string
	tileURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	circuit    *gobreaker.CircuitBreaker
	backoff    Backoff
	logger     *slog.Logger
	observe    func(endpoint string, d time.Duration)
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TileURL == "" {
		cfg.TileURL = DefaultTileURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff = Backoff{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// 4xx answers mean the provider is up.
		IsSuccessful: func(err error) bool {
			return err == nil || StatusCode(err) != 0
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tileURL:    strings.TrimRight(cfg.TileURL, "/"),
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		circuit:    cb,
		backoff:    cfg.Backoff,
		logger:     cfg.Logger,
		observe:    cfg.Observe,
	}
}

// getJSON requests baseURL+path with query, adds the API key, and decodes the
// JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	body, err := c.get(ctx, endpoint, c.baseURL+path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, rawURL string, query url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("appid", c.apiKey)
	u := rawURL + "?" + query.Encode()

	var attempt int
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}

		body, err := c.attempt(ctx, endpoint, u)
		if err == nil {
			return body, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if !retryable(err) || attempt >= c.backoff.MaxRetries {
			return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}
		c.logger.Debug("retrying provider request", "endpoint", endpoint, "attempt", attempt+1, "delay", delay.String(), "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

// attempt performs a single request inside the circuit breaker.
func (c *Client) attempt(ctx context.Context, endpoint, u string) ([]byte, error) {
	started := time.Now()
	defer func() {
		if c.observe != nil {
			c.observe(endpoint, time.Since(started))
		}
	}()

	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: %s", ErrServer, resp.Status)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, &statusError{code: resp.StatusCode, status: resp.Status}
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker: %T", result)
	}
	return body, nil
}

// statusError is a non-retryable 4xx response. It matches ErrUnexpected.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnexpected, e.status)
}

func (e *statusError) Is(target error) bool {
	return target == ErrUnexpected
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	return !errors.As(err, &se)
}
