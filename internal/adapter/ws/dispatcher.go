package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/uuid"
	wshub "gocab/pkg/wsHub"
)

// Dispatcher pushes ride events to live websocket sessions. Payloads are
// marshalled through JSON first so struct tags apply and the OTP never
// leaks into a frame.
type Dispatcher struct {
	hub *wshub.ConnectionHub
	l   logger.Logger
}

func NewDispatcher(hub *wshub.ConnectionHub, log logger.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, l: log}
}

// Notify sends {"event": ..., "data": ...} to the user's session. A user
// without a session is reported as not delivered, not as an error.
func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, event string, payload any) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("marshal notification payload: %w", err))
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("rebuild notification payload: %w", err))
	}

	err = d.hub.SendTo(userID, map[string]any{
		"event": event,
		"data":  data,
	})
	if errors.Is(err, wshub.ErrConnIsNotFound) {
		return false, nil
	}
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("send notification: %w", err))
	}
	return true, nil
}
