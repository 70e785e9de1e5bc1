package models

import (
	"time"

	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

// Ride is the central lifecycle entity. The OTP is excluded from JSON and
// only populated by the repository's internal read shape; public reads and
// outbound notifications never carry it.
type Ride struct {
	ID           uuid.UUID          `json:"id"`
	RiderID      uuid.UUID          `json:"rider_id"`
	DriverID     *uuid.UUID         `json:"driver_id,omitempty"`
	Pickup       string             `json:"pickup"`
	Destination  string             `json:"destination"`
	VehicleClass types.VehicleClass `json:"vehicle_class"`
	Fare         int64              `json:"fare"`
	OTP          string             `json:"-"`
	Status       types.RideStatus   `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RideWithParties is a ride joined with the rider (and driver, once
// assigned) profiles. Used for notification payloads and detailed reads.
type RideWithParties struct {
	Ride
	Rider  *User `json:"rider,omitempty"`
	Driver *User `json:"driver,omitempty"`
}

// RideEvent records one persisted status transition.
type RideEvent struct {
	ID        int64            `json:"id"`
	RideID    uuid.UUID        `json:"ride_id"`
	OldStatus types.RideStatus `json:"old_status"`
	NewStatus types.RideStatus `json:"new_status"`
	ActorID   *uuid.UUID       `json:"actor_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// FareEstimate is the per-class quote returned by getFare.
type FareEstimate struct {
	Pickup      string                       `json:"pickup"`
	Destination string                       `json:"destination"`
	DistanceKm  float64                      `json:"distance_km"`
	DurationMin float64                      `json:"duration_min"`
	Fares       map[types.VehicleClass]int64 `json:"fares"`
}

// RideRequestedMessage is the broker event published after a ride is
// created. The matcher consumes it to run driver discovery; it never
// carries the OTP.
type RideRequestedMessage struct {
	RideID        uuid.UUID `json:"ride_id"`
	Pickup        string    `json:"pickup"`
	RadiusKm      float64   `json:"radius_km"`
	CorrelationID string    `json:"correlation_id"`
}
