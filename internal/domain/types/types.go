package types

// VehicleClass is the pricing tier requested by the rider.
type VehicleClass string

const (
	VehicleAuto VehicleClass = "auto"
	VehicleCar  VehicleClass = "car"
	VehicleMoto VehicleClass = "moto"
)

func (v VehicleClass) String() string {
	return string(v)
}

// IsValid reports whether v is a member of the closed enumeration.
func (v VehicleClass) IsValid() bool {
	switch v {
	case VehicleAuto, VehicleCar, VehicleMoto:
		return true
	default:
		return false
	}
}

// VehicleClasses lists every valid class, in pricing-table order.
func VehicleClasses() []VehicleClass {
	return []VehicleClass{VehicleAuto, VehicleCar, VehicleMoto}
}

// RideStatus is the lifecycle state of a ride. Transitions only move
// forward: requested -> accepted -> ongoing -> completed.
type RideStatus string

const (
	StatusRequested RideStatus = "requested"
	StatusAccepted  RideStatus = "accepted"
	StatusOngoing   RideStatus = "ongoing"
	StatusCompleted RideStatus = "completed"
)

func (s RideStatus) String() string {
	return string(s)
}

// UserRole separates riders from drivers.
type UserRole string

const (
	RoleRider  UserRole = "rider"
	RoleDriver UserRole = "driver"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	return r == RoleRider || r == RoleDriver
}

// Notification event names pushed over live sessions.
const (
	EventNewRide     = "new-ride"
	EventRideStarted = "ride-started"
	EventRideEnded   = "ride-ended"
)
