package dto

import (
	"gocab/internal/domain/types"
	"gocab/internal/service/auth"
	"gocab/pkg/validator"
)

type RegisterRequest struct {
	Role         string `json:"role"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
	VehicleClass string `json:"vehicle_class,omitempty"`
}

func ValidateRegister(v *validator.Validator, req *RegisterRequest) {
	v.Check(types.UserRole(req.Role).IsValid(), "role", "must be rider or driver")
	v.Check(req.FirstName != "", "first_name", "must be provided")
	v.Check(req.LastName != "", "last_name", "must be provided")
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(validator.Matches(req.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(len(req.Password) >= 8, "password", "must be at least 8 characters long")

	switch types.UserRole(req.Role) {
	case types.RoleDriver:
		v.Check(req.VehiclePlate != "", "vehicle_plate", "must be provided for drivers")
		v.Check(types.VehicleClass(req.VehicleClass).IsValid(), "vehicle_class", "must be auto, car or moto")
	case types.RoleRider:
		v.Check(req.VehiclePlate == "", "vehicle_plate", "must be empty for riders")
		v.Check(req.VehicleClass == "", "vehicle_class", "must be empty for riders")
	}
}

func (req *RegisterRequest) ToModel() auth.RegisterRequest {
	return auth.RegisterRequest{
		Role:         types.UserRole(req.Role),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		VehiclePlate: req.VehiclePlate,
		VehicleClass: types.VehicleClass(req.VehicleClass),
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(req.Password != "", "password", "must be provided")
}
