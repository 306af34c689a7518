// Package openweathermap implements geocode.Geocoder on top of the
// OpenWeatherMap direct geocoding API.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/KKamx0/TREMM/internal/geocode"
	"github.com/KKamx0/TREMM/internal/provider"
	"github.com/KKamx0/TREMM/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "openweathermap-geo"

	// DefaultURL is the OpenWeatherMap direct geocoding endpoint.
	DefaultURL = "https://api.openweathermap.org/geo/1.0/direct"

	operation = "geocode"
)

// ClientConfig holds configuration for the geocoding client.
type ClientConfig struct {
	// Credential supplies the API key (required).
	Credential provider.CredentialSource

	// URL is the direct geocoding endpoint (optional, defaults to DefaultURL).
	URL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Metrics records request timings (optional).
	Metrics *provider.Metrics

	Logger zerolog.Logger
}

// Client is an OpenWeatherMap geocoding client.
type Client struct {
	credential provider.CredentialSource
	url        string
	httpClient *resilience.Client
	metrics    *provider.Metrics
	logger     zerolog.Logger
}

// NewClient creates a new geocoding client.
func NewClient(cfg ClientConfig) *Client {
	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = DefaultURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		credential: cfg.Credential,
		url:        endpoint,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Geocode looks up query and returns up to limit matches in the provider's
// relevance order.
func (c *Client) Geocode(ctx context.Context, query string, limit int) (matches []geocode.Match, err error) {
	apiKey, err := c.credential.Value()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		c.metrics.RecordRequest(ctx, ProviderName, operation, time.Since(start), err)
	}()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("appid", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().
		Str("provider", ProviderName).
		Str("query", query).
		Int("limit", limit).
		Msg("geocoding")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.RequestFailed(ProviderName, operation, err)
	}
	defer resp.Body.Close()

	if err := provider.CheckResponse(resp, ProviderName, operation); err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("geocoding failed")
		return nil, err
	}

	var owmResp []directResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	matches = make([]geocode.Match, 0, len(owmResp))
	for _, r := range owmResp {
		matches = append(matches, geocode.Match{
			Name:    r.Name,
			State:   r.State,
			Country: r.Country,
			Lat:     r.Lat,
			Lon:     r.Lon,
		})
	}

	return matches, nil
}

type directResponse struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}
