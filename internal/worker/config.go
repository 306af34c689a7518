// Package worker runs weather lookups requested over Pub/Sub and publishes
// the results.
package worker

import (
	"encoding/json"
	"time"
)

// Job types accepted on the subscription.
const (
	JobTypeWeatherLookup = "weather_lookup"
	JobTypeHealthCheck   = "health_check"
)

// Message is a job request received from Pub/Sub.
type Message struct {
	JobType string `json:"job_type"`

	// Place is the free-text place to look up (weather_lookup only).
	Place string `json:"place,omitempty"`

	// Days overrides the default number of forecast days (optional).
	Days int `json:"days,omitempty"`

	// RequestID is echoed on the result so the requester can correlate it.
	RequestID string `json:"request_id,omitempty"`
}

// ResultMessage is published to the result topic for every completed lookup.
type ResultMessage struct {
	RequestID string          `json:"request_id"`
	Place     string          `json:"place"`
	Result    json.RawMessage `json:"result"`
}

// JobConfig holds configuration for the lookup job processor.
type JobConfig struct {
	// Timeout bounds a single job, provider calls included.
	// Default: 30 seconds
	Timeout time.Duration

	// HealthCheckPlace is looked up by health_check jobs to verify provider
	// connectivity.
	// Default: "London, GB"
	HealthCheckPlace string
}

// DefaultJobConfig returns the default job configuration.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		Timeout:          30 * time.Second,
		HealthCheckPlace: "London, GB",
	}
}

func (c JobConfig) withDefaults() JobConfig {
	d := DefaultJobConfig()
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.HealthCheckPlace == "" {
		c.HealthCheckPlace = d.HealthCheckPlace
	}
	return c
}
