package models

import "gocab/pkg/uuid"

// Location is a geographic point.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DriverPresence is the read-only projection the proximity matcher works
// with. Presence itself is owned by the driver-location flow: drivers report
// coordinates while connected, and the index entry is dropped when they go
// offline.
type DriverPresence struct {
	DriverID uuid.UUID `json:"driver_id"`
	Location Location  `json:"location"`
}
