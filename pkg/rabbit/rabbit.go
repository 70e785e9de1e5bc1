package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"gocab/internal/domain/types"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
)

var ErrClosed = errors.New("rabbitmq client closed")

// RabbitMQ wraps a connection and channel pair and re-dials when the broker
// drops the connection.
type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel

	dsn      string
	isClosed bool
	mu       sync.Mutex

	log logger.Logger
}

// New dials the broker and opens a channel.
func New(ctx context.Context, dsn string, log logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.DialConfig(dsn, amqp.Config{
		Heartbeat: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	log.Info(wrap.WithAction(ctx, types.ActionRabbitMQConnected), "connected to RabbitMQ")

	return &RabbitMQ{
		Conn:    conn,
		Channel: channel,
		dsn:     dsn,
		log:     log,
	}, nil
}

// EnsureConnection re-dials and reopens the channel if either has been
// closed by the broker. Safe for concurrent use.
func (r *RabbitMQ) EnsureConnection(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosed {
		return ErrClosed
	}
	if r.Conn != nil && !r.Conn.IsClosed() && r.Channel != nil && !r.Channel.IsClosed() {
		return nil
	}

	conn, err := amqp.DialConfig(r.dsn, amqp.Config{
		Heartbeat: 10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("reconnect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("reopen channel: %w", err)
	}

	r.Conn = conn
	r.Channel = channel
	r.log.Info(wrap.WithAction(ctx, types.ActionRabbitReconnected), "reconnected to RabbitMQ")

	return nil
}

// Close shuts the channel and connection down. Further use returns ErrClosed.
func (r *RabbitMQ) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosed {
		return nil
	}
	r.isClosed = true

	r.log.Debug(wrap.WithAction(ctx, types.ActionRabbitConnectionClosing), "closing RabbitMQ connection")

	var errs []error
	if r.Channel != nil && !r.Channel.IsClosed() {
		if err := r.Channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if r.Conn != nil && !r.Conn.IsClosed() {
		if err := r.Conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
