package handler

import (
	"context"
	"net/http"

	"gocab/internal/adapter/http/handler/dto"
	"gocab/internal/domain/models"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/validator"
)

type RouteProvider interface {
	Geocode(ctx context.Context, address string) (models.Location, error)
	DistanceTime(ctx context.Context, origin, destination string) (float64, float64, error)
}

// Maps exposes the geocoding backend directly, so clients can resolve
// addresses before creating a ride.
type Maps struct {
	provider RouteProvider
	l        logger.Logger
}

func NewMaps(provider RouteProvider, l logger.Logger) *Maps {
	return &Maps{provider: provider, l: l}
}

func (h *Maps) Geocode(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "geocode_address")

	q := &dto.GeocodeQuery{Address: r.URL.Query().Get("address")}

	v := validator.New()
	dto.ValidateGeocodeQuery(v, q)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	loc, err := h.provider.Geocode(ctx, q.Address)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to geocode address", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"location": loc}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *Maps) Route(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "route_lookup")

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

	distanceKm, durationMin, err := h.provider.DistanceTime(ctx, q.Pickup, q.Destination)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to look up route", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"distance_km":  distanceKm,
		"duration_min": durationMin,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
