package handler

import (
	"context"
	"net/http"

	"gocab/internal/adapter/http/handler/dto"
	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/internal/service/ride"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/uuid"
	"gocab/pkg/validator"
)

type RideService interface {
	Create(ctx context.Context, req ride.CreateRequest) (*models.Ride, error)
	GetFare(ctx context.Context, pickup, destination string) (*models.FareEstimate, error)
	Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	Confirm(ctx context.Context, rideID, driverID uuid.UUID) (*models.RideWithParties, error)
	Start(ctx context.Context, rideID, driverID uuid.UUID, otp string) (*models.RideWithParties, error)
	End(ctx context.Context, rideID, driverID uuid.UUID) (*models.RideWithParties, error)
}

type Ride struct {
	rides RideService
	l     logger.Logger
}

func NewRide(service RideService, l logger.Logger) *Ride {
	return &Ride{rides: service, l: l}
}

func (h *Ride) CreateRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_ride")

	req := &dto.CreateRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCreateRide(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	user := models.UserFromContext(ctx)
	created, err := h.rides.Create(ctx, ride.CreateRequest{
		RiderID:      user.ID,
		Pickup:       req.Pickup,
		Destination:  req.Destination,
		VehicleClass: types.VehicleClass(req.VehicleClass),
	})
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	// The OTP stays server-side; the ride's json tags drop it here and in
	// every later read.
	response := envelope{"ride": created}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Ride) GetFare(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_fare")

	q := &dto.FareQuery{
		Pickup:      r.URL.Query().Get("pickup"),
		Destination: r.URL.Query().Get("destination"),
	}

	v := validator.New()
	dto.ValidateFareQuery(v, q)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	estimate, err := h.rides.GetFare(ctx, q.Pickup, q.Destination)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to estimate fare", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"estimate": estimate}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Ride) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ride")

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}

	found, err := h.rides.Get(ctx, rideID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": found}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Ride) ConfirmRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "confirm_ride")

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}

	user := models.UserFromContext(ctx)
	confirmed, err := h.rides.Confirm(ctx, rideID, user.ID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to confirm ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": confirmed}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Ride) StartRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_ride")

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}

	req := &dto.StartRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateStartRide(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	user := models.UserFromContext(ctx)
	started, err := h.rides.Start(ctx, rideID, user.ID, req.OTP)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": started}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Ride) EndRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "end_ride")

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}

	user := models.UserFromContext(ctx)
	ended, err := h.rides.End(ctx, rideID, user.ID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to end ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ended}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
