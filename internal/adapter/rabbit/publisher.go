package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"gocab/internal/domain/models"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/rabbit"
)

const (
	RideExchange      = "ride_topic"
	QueueRideRequests = "ride_requests"
	KeyRideRequested  = "ride.requested"
)

// RideBroker publishes ride lifecycle events to the ride exchange.
type RideBroker struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewRideBroker(client *rabbit.RabbitMQ, log logger.Logger) *RideBroker {
	return &RideBroker{client: client, l: log}
}

// PublishRideRequested hands a new ride to the matcher queue.
func (r *RideBroker) PublishRideRequested(ctx context.Context, msg models.RideRequestedMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_ride_requested")

	if err := r.client.EnsureConnection(ctx); err != nil {
		r.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	if err := retry(5, time.Second, func() error {
		return r.client.Channel.PublishWithContext(
			ctx,
			RideExchange,
			KeyRideRequested,
			true,  // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				CorrelationId: msg.CorrelationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	}); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish ride requested: %w", err))
	}

	return nil
}
