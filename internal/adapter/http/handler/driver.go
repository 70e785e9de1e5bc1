package handler

import (
	"context"
	"net/http"

	"gocab/internal/adapter/http/handler/dto"
	"gocab/internal/domain/models"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/uuid"
	"gocab/pkg/validator"
)

type PresenceService interface {
	Update(ctx context.Context, driverID uuid.UUID, loc models.Location) error
	Remove(ctx context.Context, driverID uuid.UUID) error
}

// Driver handles driver presence: location pings keep the driver visible
// to the matcher, going offline removes them.
type Driver struct {
	presence PresenceService
	l        logger.Logger
}

func NewDriver(presence PresenceService, l logger.Logger) *Driver {
	return &Driver{presence: presence, l: l}
}

func (h *Driver) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_driver_location")

	req := &dto.DriverLocationRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateDriverLocation(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	user := models.UserFromContext(ctx)
	loc := models.Location{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := h.presence.Update(ctx, user.ID, loc); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update driver location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "location updated"}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Driver) GoOffline(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "driver_go_offline")

	user := models.UserFromContext(ctx)
	if err := h.presence.Remove(ctx, user.ID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to remove driver presence", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "offline"}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
