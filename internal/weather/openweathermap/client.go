// Package openweathermap implements weather.Provider on top of the
// OpenWeatherMap current-conditions and 5 day / 3 hour forecast APIs.
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

	"github.com/KKamx0/TREMM/internal/provider"
	"github.com/KKamx0/TREMM/internal/provider/resilience"
	"github.com/KKamx0/TREMM/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	opCurrent  = "current"
	opForecast = "forecast"
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// Credential supplies the API key (required).
	Credential provider.CredentialSource

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Metrics records request timings (optional).
	Metrics *provider.Metrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	credential provider.CredentialSource
	baseURL    string
	httpClient *resilience.Client
	metrics    *provider.Metrics
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		credential: cfg.Credential,
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetCurrent fetches current conditions for a location.
func (c *Client) GetCurrent(ctx context.Context, lat, lon float64) (*weather.Current, error) {
	var owmResp currentWeatherResponse
	if err := c.get(ctx, "/weather", opCurrent, lat, lon, &owmResp); err != nil {
		return nil, err
	}

	return toCurrent(&owmResp), nil
}

// GetForecast fetches the 3-hourly forecast for a location.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) ([]weather.ForecastPoint, error) {
	var owmResp forecastResponse
	if err := c.get(ctx, "/forecast", opForecast, lat, lon, &owmResp); err != nil {
		return nil, err
	}

	return toForecast(&owmResp), nil
}

// get performs a GET against path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path, operation string, lat, lon float64, out any) (err error) {
	apiKey, err := c.credential.Value()
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		c.metrics.RecordRequest(ctx, ProviderName, operation, time.Since(start), err)
	}()

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("units", weather.Units)
	params.Set("appid", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return provider.RequestFailed(ProviderName, operation, err)
	}
	defer resp.Body.Close()

	if err := provider.CheckResponse(resp, ProviderName, operation); err != nil {
		c.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("operation", operation).
			Msg("weather request failed")
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", operation, err)
	}
	return nil
}

// toCurrent converts an OpenWeatherMap response to the domain model.
func toCurrent(resp *currentWeatherResponse) *weather.Current {
	snap := weather.Snapshot{
		Temp:      resp.Main.Temp,
		FeelsLike: resp.Main.FeelsLike,
		Humidity:  resp.Main.Humidity,
		Wind:      resp.Wind.Speed,
		Condition: weather.ConditionUnknown,
	}

	if len(resp.Weather) > 0 {
		snap.Condition = mapCondition(resp.Weather[0].Main)
		snap.Description = resp.Weather[0].Description
	}

	return &weather.Current{
		Snapshot:        snap,
		TZOffsetSeconds: resp.Timezone,
	}
}

// toForecast converts an OpenWeatherMap forecast list to domain points.
func toForecast(resp *forecastResponse) []weather.ForecastPoint {
	points := make([]weather.ForecastPoint, 0, len(resp.List))

	for _, item := range resp.List {
		p := weather.ForecastPoint{
			Time:    time.Unix(item.Dt, 0).UTC(),
			Temp:    item.Main.Temp,
			TempMin: item.Main.TempMin,
			TempMax: item.Main.TempMax,
			Pop:     item.Pop,
		}
		if len(item.Weather) > 0 {
			p.Description = item.Weather[0].Description
		}
		points = append(points, p)
	}

	return points
}

// mapCondition maps OpenWeatherMap condition to domain condition.
func mapCondition(owmCondition string) weather.Condition {
	switch owmCondition {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionClouds
	case "Rain":
		return weather.ConditionRain
	case "Drizzle":
		return weather.ConditionDrizzle
	case "Thunderstorm":
		return weather.ConditionThunderstorm
	case "Snow":
		return weather.ConditionSnow
	case "Mist":
		return weather.ConditionMist
	case "Fog":
		return weather.ConditionFog
	case "Haze", "Dust", "Sand", "Ash", "Squall", "Tornado":
		return weather.ConditionHaze
	default:
		return weather.ConditionUnknown
	}
}

// OpenWeatherMap API response structures.

type conditionEntry struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentWeatherResponse struct {
	Weather []conditionEntry `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Dt       int64  `json:"dt"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    *float64 `json:"temp"`
			TempMin *float64 `json:"temp_min"`
			TempMax *float64 `json:"temp_max"`
		} `json:"main"`
		Weather []conditionEntry `json:"weather"`
		Pop     *float64         `json:"pop"`
	} `json:"list"`
}
