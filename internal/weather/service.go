// Package weather fetches current conditions and forecasts for a location
// and folds the forecast into per-day summaries.
package weather

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrent fetches current conditions and the location's UTC offset.
	GetCurrent(ctx context.Context, lat, lon float64) (*Current, error)

	// GetForecast fetches the forecast as a chronological list of points.
	GetForecast(ctx context.Context, lat, lon float64) ([]ForecastPoint, error)

	// Name returns the provider name for logging.
	Name() string
}

// FetcherConfig holds configuration for the fetcher.
type FetcherConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for fetcher operations.
	Logger zerolog.Logger
}

// Fetcher retrieves current conditions and the forecast for a location.
type Fetcher struct {
	provider Provider
	logger   zerolog.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	return &Fetcher{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Fetch retrieves current conditions and the forecast for a location. The
// two provider calls run concurrently; if either fails, Fetch fails and the
// other call is cancelled. The UTC offset comes from the current-conditions
// response.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64) (*Conditions, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	f.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", f.provider.Name()).
		Msg("fetching weather from provider")

	var (
		current  *Current
		forecast []ForecastPoint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := f.provider.GetCurrent(gctx, lat, lon)
		if err != nil {
			return fmt.Errorf("fetching current conditions: %w", err)
		}
		current = c
		return nil
	})
	g.Go(func() error {
		points, err := f.provider.GetForecast(gctx, lat, lon)
		if err != nil {
			return fmt.Errorf("fetching forecast: %w", err)
		}
		forecast = points
		return nil
	})

	if err := g.Wait(); err != nil {
		f.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch weather")
		return nil, err
	}

	return &Conditions{
		Current:         current.Snapshot,
		Forecast:        forecast,
		TZOffsetSeconds: current.TZOffsetSeconds,
	}, nil
}

// validateCoordinates checks if coordinates are valid.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
