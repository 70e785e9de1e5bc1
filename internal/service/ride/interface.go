package ride

import (
	"context"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

type (
	// RideRepo persists rides. Get returns the public read shape (no OTP);
	// GetWithOTP is the internal shape used only for the start-ride check.
	// Confirm and UpdateStatus are conditional single-statement updates:
	// they report false when the expected precondition row no longer
	// matches, which is the only concurrency control the engine relies on.
	RideRepo interface {
		Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
		Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
		GetWithOTP(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
		GetWithParties(ctx context.Context, rideID uuid.UUID) (*models.RideWithParties, error)
		Confirm(ctx context.Context, rideID, driverID uuid.UUID) (bool, error)
		UpdateStatus(ctx context.Context, rideID uuid.UUID, from, to types.RideStatus, driverID uuid.UUID) (bool, error)
		AppendEvent(ctx context.Context, event *models.RideEvent) error
	}

	// UserDirectory resolves user profiles, used when matching filters
	// candidates by vehicle class.
	UserDirectory interface {
		GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	}

	// RouteProvider is the external geocoding/distance service.
	RouteProvider interface {
		Geocode(ctx context.Context, address string) (models.Location, error)
		DistanceTime(ctx context.Context, origin, destination string) (distanceKm, durationMin float64, err error)
	}

	// PresenceIndex answers proximity queries over online drivers.
	PresenceIndex interface {
		Nearby(ctx context.Context, center models.Location, radiusKm float64) ([]models.DriverPresence, error)
	}

	// Notifier pushes an event to one user's live session. delivered is
	// false (with nil error) when the user has no session registered.
	Notifier interface {
		Notify(ctx context.Context, userID uuid.UUID, event string, payload any) (delivered bool, err error)
	}

	// RidePublisher hands the post-creation matching work to the async
	// boundary.
	RidePublisher interface {
		PublishRideRequested(ctx context.Context, msg models.RideRequestedMessage) error
	}
)
