package lookup

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/KKamx0/TREMM/internal/config"
	"github.com/KKamx0/TREMM/internal/geocode"
	geoowm "github.com/KKamx0/TREMM/internal/geocode/openweathermap"
	"github.com/KKamx0/TREMM/internal/provider"
	"github.com/KKamx0/TREMM/internal/provider/resilience"
	"github.com/KKamx0/TREMM/internal/weather"
	weatherowm "github.com/KKamx0/TREMM/internal/weather/openweathermap"
)

// Dependencies are the process-wide pieces shared by every binary.
type Dependencies struct {
	// Registry tracks provider circuit breakers (optional).
	Registry *resilience.Registry

	// Metrics records provider requests and lookup outcomes (optional).
	Metrics *provider.Metrics

	Logger zerolog.Logger

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// New builds a Service backed by the OpenWeatherMap geocoding and weather
// APIs as configured in cfg.
func New(cfg *config.Config, deps Dependencies) *Service {
	geoClient := geoowm.NewClient(geoowm.ClientConfig{
		Credential: cfg.Credential,
		URL:        cfg.GeocodeURL,
		HTTPClient: newHTTPClient(geoowm.ProviderName, cfg, deps.Registry),
		Metrics:    deps.Metrics,
		Logger:     deps.Logger,
	})

	weatherClient := weatherowm.NewClient(weatherowm.ClientConfig{
		Credential: cfg.Credential,
		BaseURL:    cfg.WeatherBaseURL,
		HTTPClient: newHTTPClient(weatherowm.ProviderName, cfg, deps.Registry),
		Metrics:    deps.Metrics,
		Logger:     deps.Logger,
	})

	return NewService(ServiceConfig{
		Credential: cfg.Credential,
		Resolver: geocode.NewResolver(geocode.ResolverConfig{
			Geocoder: geoClient,
			Logger:   deps.Logger,
		}),
		Fetcher: weather.NewFetcher(weather.FetcherConfig{
			Provider: weatherClient,
			Logger:   deps.Logger,
		}),
		Days:    cfg.ForecastDays,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
		Now:     deps.Now,
	})
}

func newHTTPClient(name string, cfg *config.Config, registry *resilience.Registry) *resilience.Client {
	clientCfg := resilience.DefaultClientConfig(name)
	clientCfg.Timeout = cfg.ProviderTimeout
	clientCfg.Registry = registry
	return resilience.NewClient(clientCfg)
}
