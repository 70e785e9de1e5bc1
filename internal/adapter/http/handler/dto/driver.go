package dto

import "gocab/pkg/validator"

type DriverLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func ValidateDriverLocation(v *validator.Validator, req *DriverLocationRequest) {
	v.Check(req.Latitude >= -90 && req.Latitude <= 90, "latitude", "must be between -90 and 90")
	v.Check(req.Longitude >= -180 && req.Longitude <= 180, "longitude", "must be between -180 and 180")
}

type GeocodeQuery struct {
	Address string
}

func ValidateGeocodeQuery(v *validator.Validator, q *GeocodeQuery) {
	v.Check(len(q.Address) >= 3, "address", "must be at least 3 characters long")
}
