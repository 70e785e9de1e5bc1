package dto

import (
	"gocab/internal/domain/types"
	"gocab/pkg/validator"
)

type CreateRideRequest struct {
	Pickup       string `json:"pickup"`
	Destination  string `json:"destination"`
	VehicleClass string `json:"vehicle_class"`
}

func ValidateCreateRide(v *validator.Validator, req *CreateRideRequest) {
	v.Check(len(req.Pickup) >= 3, "pickup", "must be at least 3 characters long")
	v.Check(len(req.Destination) >= 3, "destination", "must be at least 3 characters long")
	v.Check(types.VehicleClass(req.VehicleClass).IsValid(), "vehicle_class", "must be auto, car or moto")
}

type StartRideRequest struct {
	OTP string `json:"otp"`
}

func ValidateStartRide(v *validator.Validator, req *StartRideRequest) {
	v.Check(len(req.OTP) == 6, "otp", "must be exactly 6 digits")
}

type FareQuery struct {
	Pickup      string
	Destination string
}

func ValidateFareQuery(v *validator.Validator, q *FareQuery) {
	v.Check(len(q.Pickup) >= 3, "pickup", "must be at least 3 characters long")
	v.Check(len(q.Destination) >= 3, "destination", "must be at least 3 characters long")
}
