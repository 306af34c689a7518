package worker

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler feeds Pub/Sub messages to a LookupJob.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	publisher        *pubsub.Publisher
	subscriptionName string
	job              *LookupJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string

	// ResultTopic receives lookup results; empty means results are only
	// logged.
	ResultTopic string

	Job    JobConfig
	Lookup LookupService
	Logger zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	h := &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		logger:           cfg.Logger,
	}

	jobCfg := LookupJobConfig{
		Config: cfg.Job,
		Lookup: cfg.Lookup,
		Logger: cfg.Logger,
	}
	if cfg.ResultTopic != "" {
		h.publisher = client.Publisher(cfg.ResultTopic)
		jobCfg.Publisher = &TopicPublisher{publisher: h.publisher}
	}
	h.job = NewLookupJob(jobCfg)

	return h, nil
}

// Job returns the job processor fed by this handler.
func (h *PubSubHandler) Job() *LookupJob {
	return h.job
}

// Start begins processing Pub/Sub messages and blocks until ctx is done.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close flushes pending results and closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	if h.publisher != nil {
		h.publisher.Stop()
	}
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	disposition := h.job.Process(ctx, msg.Data)
	logger.Debug().Stringer("disposition", disposition).Msg("message handled")
	if disposition == Nack {
		msg.Nack()
		return
	}
	msg.Ack()
}

// TopicPublisher publishes results to a Pub/Sub topic.
type TopicPublisher struct {
	publisher *pubsub.Publisher
}

// Publish sends one message and waits for the server to accept it.
func (p *TopicPublisher) Publish(ctx context.Context, data []byte, attrs map[string]string) error {
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing message: %w", err)
	}
	return nil
}
