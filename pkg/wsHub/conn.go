package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gocab/pkg/uuid"
)

// Conn is a single live websocket session owned by one user. Writes are
// serialized with a mutex because gorilla/websocket allows only one
// concurrent writer.
type Conn struct {
	conn     *websocket.Conn
	entityID uuid.UUID
	doneCtx  context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
}

func NewConn(ctx context.Context, entityID uuid.UUID, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)
	return &Conn{
		conn:     conn,
		entityID: entityID,
		doneCtx:  ctx,
		cancel:   cancel,
	}
}

func (c *Conn) EntityID() uuid.UUID {
	return c.entityID
}

// Send writes a JSON message to the peer.
func (c *Conn) Send(msg map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return errors.New("connection is nil")
	}
	select {
	case <-c.doneCtx.Done():
		return errors.New("connection closed")
	default:
	}

	return c.conn.WriteJSON(msg)
}

// ReadJSON blocks until the peer sends a message, the connection drops, or
// the session is closed.
func (c *Conn) ReadJSON(v any) error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}
	return c.conn.ReadJSON(v)
}

// Health pings the peer and reports failure when the socket is gone.
func (c *Conn) Health() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return errors.New("connection is nil")
	}
	select {
	case <-c.doneCtx.Done():
		return errors.New("connection context cancelled")
	default:
	}

	return c.conn.WriteControl(
		websocket.PingMessage,
		[]byte("ping"),
		time.Now().Add(3*time.Second),
	)
}

// Close tears the session down. Idempotent.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
