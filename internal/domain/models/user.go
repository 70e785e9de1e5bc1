package models

import (
	"context"
	"time"

	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

// User is a registered rider or driver. PasswordHash never leaves the
// repository layer in API payloads.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Role         types.UserRole `json:"role"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`

	// Driver-only profile fields, empty for riders.
	VehiclePlate string             `json:"vehicle_plate,omitempty"`
	VehicleClass types.VehicleClass `json:"vehicle_class,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

var anonymous = &User{}

// AnonymousUser is the sentinel injected by the auth middleware when no
// bearer token is present.
func AnonymousUser() *User {
	return anonymous
}

func (u *User) IsAnonymous() bool {
	return u == anonymous
}

type userCtxKey struct{}

// WithUser stores the authenticated user in the request context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the authenticated user, or nil if the middleware
// never ran.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}
