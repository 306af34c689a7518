// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config holds the settings shared by the binaries.
type Config struct {
	// Credential is the provider API key, resolved lazily.
	Credential *Credential `validate:"required"`

	WeatherBaseURL string `validate:"required,url"`
	GeocodeURL     string `validate:"required,url"`

	// ForecastDays is the number of upcoming days summarized per lookup.
	ForecastDays int `validate:"gte=1,lte=5"`

	// ProviderTimeout bounds a single provider HTTP call.
	ProviderTimeout time.Duration `validate:"gt=0"`

	Port        string `validate:"required,numeric"`
	Environment string `validate:"required"`

	// RequireTLS rejects plain-HTTP requests forwarded by a load balancer.
	RequireTLS bool

	OTelEnabled  bool
	OTLPEndpoint string `validate:"required_if=OTelEnabled true"`

	PubSubProjectID    string
	PubSubSubscription string `validate:"required_with=PubSubProjectID"`
	PubSubResultTopic  string
}

// Load reads a .env file when present, then the environment, and validates
// the result. The credential itself is not read here.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	days, err := strconv.Atoi(getEnvOrDefault("FORECAST_DAYS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid FORECAST_DAYS: %w", err)
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("PROVIDER_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Credential:         NewCredential(CredentialEnvVar),
		WeatherBaseURL:     getEnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		GeocodeURL:         getEnvOrDefault("OPENWEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0/direct"),
		ForecastDays:       days,
		ProviderTimeout:    timeout,
		Port:               getEnvOrDefault("APP_PORT", "8080"),
		Environment:        getEnvOrDefault("APP_ENV", "development"),
		RequireTLS:         os.Getenv("REQUIRE_TLS") == "true",
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint:       getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: os.Getenv("PUBSUB_SUBSCRIPTION"),
		PubSubResultTopic:  os.Getenv("PUBSUB_RESULT_TOPIC"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
