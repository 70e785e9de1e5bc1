package types

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidLogin = errors.New("invalid email or password")
	ErrTokenRevoked = errors.New("token revoked")
	ErrInvalidToken = errors.New("invalid token")

	ErrRideNotFound         = errors.New("ride not found")
	ErrRideAlreadyAccepted  = errors.New("ride already accepted by another driver")
	ErrRideAlreadyStarted   = errors.New("ride already started")
	ErrNotRideDriver        = errors.New("caller is not the assigned driver")
	ErrInvalidOTP           = errors.New("invalid otp")
	ErrRideNotAccepted      = errors.New("ride is not in accepted state")
	ErrRideNotEligibleToEnd = errors.New("ride not eligible to end")

	ErrLocationNotFound = errors.New("location not found")
	ErrRouteNotFound    = errors.New("no route between addresses")
	ErrMapsUnavailable  = errors.New("route provider unavailable")
)
