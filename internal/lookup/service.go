// Package lookup is the public entry point: it turns a free-text place into
// current conditions and a short per-day forecast.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KKamx0/TREMM/internal/geocode"
	"github.com/KKamx0/TREMM/internal/provider"
	"github.com/KKamx0/TREMM/internal/weather"
)

const tracerName = "github.com/KKamx0/TREMM/internal/lookup"

const (
	// DefaultDays is the number of forecast days returned by GetWeather.
	DefaultDays = 3

	// MaxDays is the most days the 3-hourly forecast can cover.
	MaxDays = 5
)

// Lookup outcomes, as recorded in metrics and span attributes.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeAmbiguous = "ambiguous"
	OutcomeError     = "error"
)

// ErrInvalidDays is returned when the requested number of days is out of range.
var ErrInvalidDays = errors.New("days must be between 1 and 5")

// Resolver resolves a free-text place to a location.
type Resolver interface {
	Resolve(ctx context.Context, input string) (*geocode.Resolution, error)
}

// Fetcher retrieves weather for resolved coordinates.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (*weather.Conditions, error)
}

// ServiceConfig holds configuration for the lookup service.
type ServiceConfig struct {
	Credential provider.CredentialSource
	Resolver   Resolver
	Fetcher    Fetcher

	// Days is the default number of forecast days (default: 3).
	Days int

	// Metrics records lookup outcomes (optional).
	Metrics *provider.Metrics

	Logger zerolog.Logger

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// Service answers weather lookups for free-text places.
type Service struct {
	credential provider.CredentialSource
	resolver   Resolver
	fetcher    Fetcher
	days       int
	metrics    *provider.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

// NewService creates a new lookup service.
func NewService(cfg ServiceConfig) *Service {
	days := cfg.Days
	if days == 0 {
		days = DefaultDays
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		credential: cfg.Credential,
		resolver:   cfg.Resolver,
		fetcher:    cfg.Fetcher,
		days:       days,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		now:        now,
	}
}

// Days returns the default number of forecast days.
func (s *Service) Days() int {
	return s.days
}

// Ready reports whether lookups can be served, i.e. a credential is set.
func (s *Service) Ready() error {
	_, err := s.credential.Value()
	return err
}

// GetWeather looks up place with the default number of forecast days.
//
// Places that cannot be found or are ambiguous produce a Result with OK set
// to false. Errors are reserved for a missing credential
// (config.ErrMissingCredential) and provider failures
// (*provider.TransportError).
func (s *Service) GetWeather(ctx context.Context, place string) (*Result, error) {
	return s.GetWeatherForDays(ctx, place, s.days)
}

// GetWeatherForDays is GetWeather with an explicit number of forecast days.
func (s *Service) GetWeatherForDays(ctx context.Context, place string, days int) (result *Result, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "lookup.GetWeather",
		trace.WithAttributes(
			attribute.String("place.query", place),
			attribute.Int("forecast.days", days),
		),
	)
	defer span.End()

	outcome := OutcomeError
	defer func() {
		span.SetAttributes(attribute.String("lookup.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.RecordOutcome(ctx, outcome)
	}()

	if days < 1 || days > MaxDays {
		return nil, ErrInvalidDays
	}

	if _, err := s.credential.Value(); err != nil {
		s.logger.Error().Err(err).Msg("weather lookup refused")
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("resolving place: %w", err)
	}

	switch res.Status {
	case geocode.StatusNotFound:
		outcome = OutcomeNotFound
		s.logger.Warn().Str("query", res.Query).Msg("place not found")
		return &Result{Message: res.Message}, nil
	case geocode.StatusAmbiguous:
		outcome = OutcomeAmbiguous
		s.logger.Warn().
			Str("query", res.Query).
			Int("options", len(res.Options)).
			Msg("place is ambiguous")
		return &Result{Message: res.Message}, nil
	}

	match := res.Match
	span.SetAttributes(
		attribute.String("place.resolved", match.Label()),
		attribute.Float64("place.lat", match.Lat),
		attribute.Float64("place.lon", match.Lon),
	)

	cond, err := s.fetcher.Fetch(ctx, match.Lat, match.Lon)
	if err != nil {
		return nil, err
	}

	summaries := weather.Summarize(cond.Forecast, cond.TZOffsetSeconds, days, s.now())

	outcome = OutcomeOK
	s.logger.Debug().
		Str("query", res.Query).
		Str("location", match.Label()).
		Int("days", len(summaries)).
		Msg("weather lookup complete")

	return &Result{
		OK:       true,
		Location: match.Label(),
		Current:  cond.Current,
		NextDays: summaries,
	}, nil
}
