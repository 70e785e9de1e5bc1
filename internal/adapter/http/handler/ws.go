package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"gocab/internal/domain/models"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/metrics"
	wshub "gocab/pkg/wsHub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens through the bearer token, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS upgrades authenticated requests to websocket sessions and registers
// them in the hub, so ride notifications can find the user.
type WS struct {
	hub *wshub.ConnectionHub
	l   logger.Logger
}

func NewWS(hub *wshub.ConnectionHub, l logger.Logger) *WS {
	return &WS{hub: hub, l: l}
}

func (h *WS) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_connect")

	user := models.UserFromContext(ctx)
	if user == nil || user.IsAnonymous() {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}
	ctx = wrap.WithUserID(ctx, user.ID.String())

	socket, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.l.Error(ctx, "websocket upgrade failed", err)
		return
	}

	// The request context dies as soon as this handler returns, so the
	// session must not inherit it.
	conn := wshub.NewConn(context.Background(), user.ID, socket)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register websocket session", err)
		_ = conn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.Inc()
	h.l.Info(ctx, "websocket session opened")

	// The read loop holds the session open and drains client frames. The
	// server pushes events through the hub; inbound payloads are ignored.
	go h.readLoop(conn)
}

func (h *WS) readLoop(conn *wshub.Conn) {
	defer func() {
		if err := h.hub.Delete(conn.EntityID()); err == nil {
			metrics.WebSocketConnectionsGauge.Dec()
		}
		ctx := wrap.WithUserID(wrap.WithAction(
			context.Background(), "ws_disconnect"), conn.EntityID().String())
		h.l.Info(ctx, "websocket session closed")
	}()

	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
	}
}
