package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// Job types accepted on the subscription.
const (
	JobProviderRefresh = "provider_refresh"
	JobHealthCheck     = "health_check"
)

// ErrUnknownJob is returned by Dispatch for an unrecognised job type.
var ErrUnknownJob = errors.New("unknown job type")

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       *Dispatcher
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	RefreshJob       *RefreshJob
	Logger           zerolog.Logger
}

// RefreshMessage represents a job message.
type RefreshMessage struct {
	JobType string `json:"job_type"`
}

// Dispatcher runs the job named by a message payload.
type Dispatcher struct {
	job    *RefreshJob
	logger zerolog.Logger
}

// NewDispatcher creates a Dispatcher for the given job.
func NewDispatcher(job *RefreshJob, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{job: job, logger: logger}
}

// Dispatch decodes data and runs the job it names. The returned job type is
// empty when data is not valid JSON.
func (d *Dispatcher) Dispatch(ctx context.Context, data []byte) (string, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", fmt.Errorf("parsing message: %w", err)
	}

	switch msg.JobType {
	case JobProviderRefresh:
		return msg.JobType, d.providerRefresh(ctx)
	case JobHealthCheck:
		return msg.JobType, d.job.CheckHealth(ctx)
	default:
		return msg.JobType, ErrUnknownJob
	}
}

func (d *Dispatcher) providerRefresh(ctx context.Context) error {
	result := d.job.Run(ctx)

	// Consider it successful if at least half succeeded.
	if result.Failed > result.Successful {
		return fmt.Errorf("too many refresh failures: %d/%d", result.Failed, result.TotalPoints)
	}
	return nil
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

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       NewDispatcher(cfg.RefreshJob, cfg.Logger),
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	jobType, err := h.dispatcher.Dispatch(ctx, msg.Data)
	switch {
	case errors.Is(err, ErrUnknownJob):
		logger.Warn().Str("job_type", jobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	case err != nil && jobType == "":
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	case err != nil:
		logger.Error().Err(err).Str("job_type", jobType).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", jobType).
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")

	msg.Ack()
}
