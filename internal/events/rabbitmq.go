package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// amqpPublisher is the slice of rabbitmq.Client used for events
type amqpPublisher interface {
	PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// RabbitPublisher publishes JSON events with the event type as routing key
type RabbitPublisher struct {
	client amqpPublisher
	logger *slog.Logger
}

func NewRabbitPublisher(client amqpPublisher, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		client: client,
		logger: logger,
	}
}

func (p *RabbitPublisher) Publish(ctx context.Context, event JobEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, string(event.Type), body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.Debug("Job event published",
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)),
		slog.String("job_id", event.JobID),
	)
	return nil
}
