package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/KKamx0/TREMM/internal/lookup"
	"github.com/KKamx0/TREMM/internal/provider"
)

// Disposition tells the subscriber what to do with a message.
type Disposition int

const (
	// Ack removes the message from the subscription.
	Ack Disposition = iota
	// Nack asks Pub/Sub to redeliver the message later.
	Nack
)

func (d Disposition) String() string {
	if d == Nack {
		return "nack"
	}
	return "ack"
}

// LookupService answers weather lookups.
type LookupService interface {
	GetWeatherForDays(ctx context.Context, place string, days int) (*lookup.Result, error)
	Days() int
	Ready() error
}

// Publisher delivers lookup results.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) error
}

// errMalformed marks jobs that can never succeed and should be dropped.
var errMalformed = errors.New("malformed job")

// JobStats tracks job processing counts.
type JobStats struct {
	Processed int64 `json:"processed"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
}

// LookupJobConfig holds the dependencies of a LookupJob.
type LookupJobConfig struct {
	Config JobConfig
	Lookup LookupService

	// Publisher receives results; nil means results are only logged.
	Publisher Publisher

	Logger zerolog.Logger
}

// LookupJob processes job messages. It never retries on its own: failed
// lookups are Nacked and redelivered by Pub/Sub, except provider 4xx
// rejections, which are dropped.
type LookupJob struct {
	config    JobConfig
	lookup    LookupService
	publisher Publisher
	logger    zerolog.Logger

	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewLookupJob creates a new job processor.
func NewLookupJob(cfg LookupJobConfig) *LookupJob {
	return &LookupJob{
		config:    cfg.Config.withDefaults(),
		lookup:    cfg.Lookup,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}
}

// Stats returns a snapshot of the job counters.
func (j *LookupJob) Stats() JobStats {
	return JobStats{
		Processed: j.processed.Load(),
		Succeeded: j.succeeded.Load(),
		Failed:    j.failed.Load(),
		Dropped:   j.dropped.Load(),
	}
}

// Process handles one raw message. Malformed and unknown messages are
// acknowledged and dropped; configuration, provider and publish failures
// are negatively acknowledged.
func (j *LookupJob) Process(ctx context.Context, data []byte) Disposition {
	j.processed.Add(1)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		j.dropped.Add(1)
		j.logger.Error().Err(err).Msg("failed to parse message")
		return Ack
	}

	logger := j.logger.With().
		Str("job_type", msg.JobType).
		Str("request_id", msg.RequestID).
		Logger()

	var err error
	switch msg.JobType {
	case JobTypeWeatherLookup:
		err = j.handleLookup(ctx, msg)
	case JobTypeHealthCheck:
		err = j.handleHealthCheck(ctx)
	default:
		j.dropped.Add(1)
		logger.Warn().Msg("unknown job type")
		return Ack
	}

	switch {
	case errors.Is(err, errMalformed):
		j.dropped.Add(1)
		logger.Warn().Err(err).Msg("dropping job")
		return Ack
	case err != nil:
		j.failed.Add(1)
		logger.Error().Err(err).Msg("job failed")
		return Nack
	}

	j.succeeded.Add(1)
	logger.Info().
		Dur("duration", time.Since(start)).
		Msg("job completed successfully")
	return Ack
}

func (j *LookupJob) handleLookup(ctx context.Context, msg Message) error {
	place := strings.TrimSpace(msg.Place)
	if place == "" {
		return fmt.Errorf("%w: place is required", errMalformed)
	}

	days := msg.Days
	if days == 0 {
		days = j.lookup.Days()
	}

	result, err := j.lookup.GetWeatherForDays(ctx, place, days)
	if errors.Is(err, lookup.ErrInvalidDays) || rejected(err) {
		return fmt.Errorf("%w: %w", errMalformed, err)
	}
	if err != nil {
		return fmt.Errorf("looking up %q: %w", place, err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if j.publisher == nil {
		j.logger.Info().
			Str("request_id", msg.RequestID).
			RawJSON("result", body).
			Msg("lookup result")
		return nil
	}

	out, err := json.Marshal(ResultMessage{
		RequestID: msg.RequestID,
		Place:     place,
		Result:    body,
	})
	if err != nil {
		return fmt.Errorf("encoding result message: %w", err)
	}

	attrs := map[string]string{
		"job_type": JobTypeWeatherLookup,
		"ok":       strconv.FormatBool(result.OK),
	}
	if msg.RequestID != "" {
		attrs["request_id"] = msg.RequestID
	}

	if err := j.publisher.Publish(ctx, out, attrs); err != nil {
		return fmt.Errorf("publishing result: %w", err)
	}
	return nil
}

func (j *LookupJob) handleHealthCheck(ctx context.Context) error {
	j.logger.Debug().Msg("running health check")

	if err := j.lookup.Ready(); err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	// A place that doesn't resolve still proves the providers answered.
	if _, err := j.lookup.GetWeatherForDays(ctx, j.config.HealthCheckPlace, 1); err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	j.logger.Debug().Msg("health check passed")
	return nil
}

// rejected reports whether err is a provider response that redelivery cannot
// change: any 4xx except request timeout and rate limiting.
func rejected(err error) bool {
	var te *provider.TransportError
	if !errors.As(err, &te) {
		return false
	}
	switch te.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return te.StatusCode >= 400 && te.StatusCode < 500
}
