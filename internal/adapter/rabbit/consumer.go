package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/rabbit"
)

type RideConsumer struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewRideConsumer(client *rabbit.RabbitMQ, log logger.Logger) *RideConsumer {
	return &RideConsumer{client: client, l: log}
}

type HandlerFunc func(ctx context.Context, req models.RideRequestedMessage) error

func (r *RideConsumer) declareAndBindQueue(ctx context.Context, queueName, bindingKey, exchangeName string) (amqp.Queue, error) {
	const op = "RideConsumer.declareAndBindQueue"

	q, err := r.client.Channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("%s: declare queue failed: %w", op, err))
	}

	if err := r.client.Channel.QueueBind(q.Name, bindingKey, exchangeName, false, nil); err != nil {
		return q, wrap.Error(ctx, fmt.Errorf("%s: bind queue failed: %w", op, err))
	}

	return q, nil
}

func (r *RideConsumer) handleMessage(ctx context.Context, fn HandlerFunc, msg amqp.Delivery) {
	const op = "RideConsumer.handleMessage"

	var req models.RideRequestedMessage
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		r.l.Error(ctx, "decode failed", err, "op", op)
		_ = msg.Nack(false, false)
		return
	}

	ctx = wrap.WithRequestID(wrap.WithRideID(ctx, req.RideID.String()), msg.CorrelationId)

	if err := fn(ctx, req); err != nil {
		r.l.Error(wrap.ErrorCtx(ctx, err), "handler failed", err, "op", op)

		// A ride that vanished or got accepted while the message waited in
		// the queue is stale, not retryable.
		if errors.Is(err, types.ErrRideNotFound) {
			_ = msg.Reject(false)
			return
		}

		if isRecoverableError(err) {
			_ = msg.Nack(false, true)
		} else {
			_ = msg.Nack(false, false)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		r.l.Warn(ctx, "ack failed", "op", op)
	}
}

// ConsumeRideRequested listens for ride.requested events and passes each
// one to fn. Blocks until ctx is cancelled, reconnecting as needed.
func (r *RideConsumer) ConsumeRideRequested(ctx context.Context, fn HandlerFunc) error {
	const op = "RideConsumer.ConsumeRideRequested"
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_ride_requested")

	for {
		if ctx.Err() != nil {
			r.l.Debug(ctx, "consume ride requested stopped by context")
			return nil
		}

		if err := r.client.EnsureConnection(ctx); err != nil {
			r.l.Error(ctx, "ensure connection failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		if err := r.client.Channel.ExchangeDeclare(RideExchange, "topic", true, false, false, false, nil); err != nil {
			r.l.Error(ctx, "declare exchange failed", err, "op", op)
			time.Sleep(3 * time.Second)
			continue
		}

		q, err := r.declareAndBindQueue(ctx, QueueRideRequests, KeyRideRequested, RideExchange)
		if err != nil {
			r.l.Error(ctx, "declare queue failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		msgs, err := r.client.Channel.Consume(q.Name, "", false, false, false, false, nil)
		if err != nil {
			r.l.Error(ctx, "consume failed", err, "op", op)
			time.Sleep(2 * time.Second)
			continue
		}

		r.l.Info(ctx, "start consuming ride requests", "queue", q.Name)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				r.l.Info(ctx, "ride request consumer shutting down", "op", op)
				return nil

			case msg, ok := <-msgs:
				if !ok {
					r.l.Warn(ctx, "message channel closed, reconnecting...", "op", op)
					time.Sleep(2 * time.Second)
					break consumeLoop
				}

				go r.handleMessage(ctx, fn, msg)
			}
		}
	}
}
