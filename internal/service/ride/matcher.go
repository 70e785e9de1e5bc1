package ride

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/metrics"
	"gocab/pkg/uuid"
)

// HandleRideRequested fans a freshly created ride out to every online
// driver within the pickup radius. Notification failures are isolated
// per driver so one dead session cannot starve the rest.
func (s *RideService) HandleRideRequested(ctx context.Context, msg models.RideRequestedMessage) error {
	ctx = wrap.WithAction(ctx, "match_ride")
	ctx = wrap.WithRideID(ctx, msg.RideID.String())
	if msg.CorrelationID != "" {
		ctx = wrap.WithRequestID(ctx, msg.CorrelationID)
	}

	center, err := s.maps.Geocode(ctx, msg.Pickup)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not geocode pickup %q: %w", msg.Pickup, err))
	}

	radius := msg.RadiusKm
	if radius <= 0 {
		radius = s.matching.RadiusKm
	}

	drivers, err := s.presence.Nearby(ctx, center, radius)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not query nearby drivers: %w", err))
	}

	metrics.MatchedDriversHistogram.Observe(float64(len(drivers)))

	if len(drivers) == 0 {
		s.log.Info(ctx, "no drivers within radius", "radius_km", radius)
		return nil
	}

	// Closest driver is offered first.
	sort.Slice(drivers, func(i, j int) bool {
		return haversineKm(center, drivers[i].Location) < haversineKm(center, drivers[j].Location)
	})

	ride, err := s.repo.GetWithParties(ctx, msg.RideID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if ride.Status != types.StatusRequested {
		s.log.Info(ctx, "ride no longer open for matching", "status", ride.Status)
		return nil
	}

	offered := 0
	for _, d := range drivers {
		if s.matching.FilterByVehicleClass && !s.driverHasClass(ctx, d.DriverID, ride.VehicleClass) {
			continue
		}
		delivered, err := s.notifier.Notify(ctx, d.DriverID, types.EventNewRide, ride)
		if err != nil {
			s.log.Warn(ctx, "failed to offer ride to driver", "driver_id", d.DriverID)
			continue
		}
		if delivered {
			offered++
		}
	}

	s.log.Info(ctx, "ride offered to nearby drivers",
		"candidates", len(drivers), "offered", offered, "radius_km", radius)

	return nil
}

// driverHasClass checks the candidate's registered vehicle class. Lookup
// failures keep the driver in the pool rather than silently shrinking it.
func (s *RideService) driverHasClass(ctx context.Context, driverID uuid.UUID, class types.VehicleClass) bool {
	driver, err := s.users.GetByID(ctx, driverID)
	if err != nil {
		s.log.Warn(ctx, "could not load driver profile for class filter", "driver_id", driverID)
		return true
	}
	return driver.VehicleClass == class
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points.
func haversineKm(a, b models.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
