package ride

import (
	"context"
	"crypto/subtle"
	"fmt"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/metrics"
	"gocab/pkg/trm"
	"gocab/pkg/uuid"
)

// RideService orchestrates the ride lifecycle:
// requested -> accepted -> ongoing -> completed. Every transition is a
// single conditional update against the store; no other locking is used.
type RideService struct {
	repo      RideRepo
	users     UserDirectory
	maps      RouteProvider
	presence  PresenceIndex
	notifier  Notifier
	publisher RidePublisher
	trm       trm.TxManager
	log       logger.Logger

	matching MatchingOptions
}

// MatchingOptions tune driver discovery.
type MatchingOptions struct {
	RadiusKm             float64
	FilterByVehicleClass bool
}

func NewRideService(
	repo RideRepo,
	users UserDirectory,
	maps RouteProvider,
	presence PresenceIndex,
	notifier Notifier,
	publisher RidePublisher,
	txm trm.TxManager,
	log logger.Logger,
	matching MatchingOptions,
) *RideService {
	return &RideService{
		repo:      repo,
		users:     users,
		maps:      maps,
		presence:  presence,
		notifier:  notifier,
		publisher: publisher,
		trm:       txm,
		log:       log,
		matching:  matching,
	}
}

// CreateRequest is the validated input for Create.
type CreateRequest struct {
	RiderID      uuid.UUID
	Pickup       string
	Destination  string
	VehicleClass types.VehicleClass
}

// Create prices the ride, generates its OTP and persists it in the
// requested state. The caller gets the ride back immediately; driver
// discovery runs behind the broker and its failure never undoes the ride.
func (s *RideService) Create(ctx context.Context, req CreateRequest) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "create_ride")
	ctx = wrap.WithUserID(ctx, req.RiderID.String())

	distanceKm, durationMin, err := s.distanceTime(ctx, req.Pickup, req.Destination)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not price ride: %w", err))
	}

	otp, err := generateOTP(OTPLength)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ride := &models.Ride{
		RiderID:      req.RiderID,
		Pickup:       req.Pickup,
		Destination:  req.Destination,
		VehicleClass: req.VehicleClass,
		Fare:         calculateFare(req.VehicleClass, distanceKm, durationMin),
		OTP:          otp,
		Status:       types.StatusRequested,
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		ride, err = s.repo.Create(ctx, ride)
		if err != nil {
			return fmt.Errorf("could not create ride in repo: %w", err)
		}
		return s.repo.AppendEvent(ctx, &models.RideEvent{
			RideID:    ride.ID,
			OldStatus: "",
			NewStatus: types.StatusRequested,
			ActorID:   &req.RiderID,
		})
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ctx = wrap.WithRideID(ctx, ride.ID.String())
	metrics.RidesTotal.WithLabelValues(types.StatusRequested.String()).Inc()

	// Matching is fire-and-forget: the rider already owns a persisted ride,
	// so a publish failure is logged and swallowed.
	msg := models.RideRequestedMessage{
		RideID:        ride.ID,
		Pickup:        ride.Pickup,
		RadiusKm:      s.matching.RadiusKm,
		CorrelationID: ride.ID.String(),
	}
	if err := s.publisher.PublishRideRequested(ctx, msg); err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to publish ride.requested", err)
	}

	return ride, nil
}

// GetFare quotes every vehicle class for the given route.
func (s *RideService) GetFare(ctx context.Context, pickup, destination string) (*models.FareEstimate, error) {
	ctx = wrap.WithAction(ctx, "get_fare")

	distanceKm, durationMin, err := s.distanceTime(ctx, pickup, destination)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return &models.FareEstimate{
		Pickup:      pickup,
		Destination: destination,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Fares:       calculateFares(distanceKm, durationMin),
	}, nil
}

// Confirm assigns the calling driver to a requested ride. First writer
// wins: the conditional update only matches while the ride is still
// unassigned, so a losing driver observes ErrRideAlreadyAccepted.
func (s *RideService) Confirm(ctx context.Context, rideID, driverID uuid.UUID) (*models.RideWithParties, error) {
	ctx = wrap.WithAction(ctx, "confirm_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())
	ctx = wrap.WithUserID(ctx, driverID.String())

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Confirm(ctx, rideID, driverID)
		if err != nil {
			return fmt.Errorf("could not confirm ride: %w", err)
		}
		if !ok {
			if _, err := s.repo.Get(ctx, rideID); err != nil {
				return err // ErrRideNotFound
			}
			return types.ErrRideAlreadyAccepted
		}
		return s.repo.AppendEvent(ctx, &models.RideEvent{
			RideID:    rideID,
			OldStatus: types.StatusRequested,
			NewStatus: types.StatusAccepted,
			ActorID:   &driverID,
		})
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RidesTotal.WithLabelValues(types.StatusAccepted.String()).Inc()

	ride, err := s.repo.GetWithParties(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.notifyRider(ctx, ride, types.EventNewRide)

	return ride, nil
}

// Start moves an accepted ride to ongoing after the driver presents the
// rider's OTP. Failures are distinguishable: not-found, forbidden
// (wrong driver), conflict (not in accepted state) and validation (OTP).
func (s *RideService) Start(ctx context.Context, rideID, driverID uuid.UUID, otp string) (*models.RideWithParties, error) {
	ctx = wrap.WithAction(ctx, "start_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())
	ctx = wrap.WithUserID(ctx, driverID.String())

	ride, err := s.repo.GetWithOTP(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if ride.DriverID == nil || *ride.DriverID != driverID {
		return nil, wrap.Error(ctx, types.ErrNotRideDriver)
	}
	if ride.Status == types.StatusOngoing {
		return nil, wrap.Error(ctx, types.ErrRideAlreadyStarted)
	}
	if ride.Status != types.StatusAccepted {
		return nil, wrap.Error(ctx, types.ErrRideNotAccepted)
	}
	if subtle.ConstantTimeCompare([]byte(ride.OTP), []byte(otp)) != 1 {
		return nil, wrap.Error(ctx, types.ErrInvalidOTP)
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		ok, err := s.repo.UpdateStatus(ctx, rideID, types.StatusAccepted, types.StatusOngoing, driverID)
		if err != nil {
			return fmt.Errorf("could not start ride: %w", err)
		}
		if !ok {
			// Lost the race against another start of the same ride.
			return types.ErrRideAlreadyStarted
		}
		return s.repo.AppendEvent(ctx, &models.RideEvent{
			RideID:    rideID,
			OldStatus: types.StatusAccepted,
			NewStatus: types.StatusOngoing,
			ActorID:   &driverID,
		})
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RidesTotal.WithLabelValues(types.StatusOngoing.String()).Inc()

	updated, err := s.repo.GetWithParties(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.notifyRider(ctx, updated, types.EventRideStarted)

	return updated, nil
}

// End completes an ongoing ride. Ending an already completed ride is
// idempotent: the ride is returned as-is and no second notification goes
// out. Any other state is rejected as not eligible.
func (s *RideService) End(ctx context.Context, rideID, driverID uuid.UUID) (*models.RideWithParties, error) {
	ctx = wrap.WithAction(ctx, "end_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())
	ctx = wrap.WithUserID(ctx, driverID.String())

	ride, err := s.repo.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if ride.DriverID == nil || *ride.DriverID != driverID {
		return nil, wrap.Error(ctx, types.ErrNotRideDriver)
	}
	if ride.Status == types.StatusCompleted {
		return s.repo.GetWithParties(ctx, rideID)
	}
	if ride.Status != types.StatusOngoing {
		return nil, wrap.Error(ctx, types.ErrRideNotEligibleToEnd)
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		ok, err := s.repo.UpdateStatus(ctx, rideID, types.StatusOngoing, types.StatusCompleted, driverID)
		if err != nil {
			return fmt.Errorf("could not end ride: %w", err)
		}
		if !ok {
			// A concurrent End already completed it; replay is idempotent.
			return nil
		}
		metrics.RidesTotal.WithLabelValues(types.StatusCompleted.String()).Inc()
		return s.repo.AppendEvent(ctx, &models.RideEvent{
			RideID:    rideID,
			OldStatus: types.StatusOngoing,
			NewStatus: types.StatusCompleted,
			ActorID:   &driverID,
		})
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	updated, err := s.repo.GetWithParties(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if updated.Status == types.StatusCompleted && ride.Status == types.StatusOngoing {
		s.notifyRider(ctx, updated, types.EventRideEnded)
	}

	return updated, nil
}

// Get returns the public read shape of a ride.
func (s *RideService) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return s.repo.Get(ctx, rideID)
}

// notifyRider pushes an event to the ride's rider session. A rider
// without a live session is not an error; delivery failures are logged
// and never propagated.
func (s *RideService) notifyRider(ctx context.Context, ride *models.RideWithParties, event string) {
	delivered, err := s.notifier.Notify(ctx, ride.RiderID, event, ride)
	if err != nil {
		s.log.Warn(ctx, "failed to notify rider",
			"event", event, "rider_id", ride.RiderID)
		metrics.RideNotificationsTotal.WithLabelValues(event, "false").Inc()
		return
	}
	metrics.RideNotificationsTotal.WithLabelValues(event, fmt.Sprintf("%t", delivered)).Inc()
	if !delivered {
		s.log.Debug(ctx, "rider has no live session, notification skipped", "event", event)
	}
}
