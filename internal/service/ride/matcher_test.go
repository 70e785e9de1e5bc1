package ride

import (
	"context"
	"errors"
	"math"
	"testing"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Location
		want float64
		tol  float64
	}{
		{
			name: "same point",
			a:    models.Location{Latitude: 28.6139, Longitude: 77.2090},
			b:    models.Location{Latitude: 28.6139, Longitude: 77.2090},
			want: 0, tol: 0.001,
		},
		{
			name: "one degree of latitude",
			a:    models.Location{Latitude: 28, Longitude: 77},
			b:    models.Location{Latitude: 29, Longitude: 77},
			want: 111.19, tol: 0.5,
		},
		{
			name: "delhi to patna",
			a:    models.Location{Latitude: 28.6139, Longitude: 77.2090},
			b:    models.Location{Latitude: 25.5941, Longitude: 85.1376},
			want: 853, tol: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("haversineKm = %v, want %v (+/- %v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestHandleRideRequested(t *testing.T) {
	center := models.Location{Latitude: 28.6139, Longitude: 77.2090}
	// Roughly 0km, 1.5km and 3km north of the pickup point.
	atPickup := uuid.MustNew()
	within := uuid.MustNew()
	outside := uuid.MustNew()
	drivers := []models.DriverPresence{
		{DriverID: atPickup, Location: center},
		{DriverID: within, Location: models.Location{Latitude: center.Latitude + 0.0135, Longitude: center.Longitude}},
		{DriverID: outside, Location: models.Location{Latitude: center.Latitude + 0.027, Longitude: center.Longitude}},
	}

	newRide := func(t *testing.T, repo *fakeRideRepo, svc *RideService) *models.Ride {
		t.Helper()
		ride, err := svc.Create(context.Background(), CreateRequest{
			RiderID:      uuid.MustNew(),
			Pickup:       "Connaught Place",
			Destination:  "Saket",
			VehicleClass: types.VehicleAuto,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return ride
	}

	t.Run("only drivers within radius are offered", func(t *testing.T) {
		repo := newFakeRideRepo()
		route := &fakeRouteProvider{distanceKm: 10, durationMin: 25, location: center}
		notifier := newFakeNotifier(atPickup, within, outside)
		svc := newTestService(repo, route, &fakePresence{drivers: drivers}, notifier, &fakePublisher{})

		ride := newRide(t, repo, svc)
		err := svc.HandleRideRequested(context.Background(), models.RideRequestedMessage{
			RideID:   ride.ID,
			Pickup:   ride.Pickup,
			RadiusKm: 2,
		})
		if err != nil {
			t.Fatalf("HandleRideRequested: %v", err)
		}

		if got := notifier.sentEvents(types.EventNewRide); got != 2 {
			t.Fatalf("offered to %d drivers, want 2", got)
		}
		for _, s := range notifier.sent {
			if s.userID == outside {
				t.Errorf("driver 3km away should not have been offered the ride")
			}
		}
	})

	t.Run("closest driver is offered first", func(t *testing.T) {
		repo := newFakeRideRepo()
		route := &fakeRouteProvider{distanceKm: 10, durationMin: 25, location: center}
		notifier := newFakeNotifier(atPickup, within)
		svc := newTestService(repo, route, &fakePresence{drivers: drivers}, notifier, &fakePublisher{})

		ride := newRide(t, repo, svc)
		if err := svc.HandleRideRequested(context.Background(), models.RideRequestedMessage{
			RideID:   ride.ID,
			Pickup:   ride.Pickup,
			RadiusKm: 2,
		}); err != nil {
			t.Fatalf("HandleRideRequested: %v", err)
		}

		if len(notifier.sent) != 2 || notifier.sent[0].userID != atPickup {
			t.Errorf("expected the driver at the pickup point to be offered first")
		}
	})

	t.Run("no drivers in radius is not an error", func(t *testing.T) {
		repo := newFakeRideRepo()
		route := &fakeRouteProvider{distanceKm: 10, durationMin: 25, location: center}
		svc := newTestService(repo, route, &fakePresence{}, newFakeNotifier(), &fakePublisher{})

		ride := newRide(t, repo, svc)
		if err := svc.HandleRideRequested(context.Background(), models.RideRequestedMessage{
			RideID:   ride.ID,
			Pickup:   ride.Pickup,
			RadiusKm: 2,
		}); err != nil {
			t.Fatalf("HandleRideRequested: %v", err)
		}
	})

	t.Run("class filter keeps only matching drivers", func(t *testing.T) {
		repo := newFakeRideRepo()
		route := &fakeRouteProvider{distanceKm: 10, durationMin: 25, location: center}
		notifier := newFakeNotifier(atPickup, within)
		users := &fakeUserDirectory{users: map[uuid.UUID]*models.User{
			atPickup: {ID: atPickup, Role: types.RoleDriver, VehicleClass: types.VehicleCar},
			within:   {ID: within, Role: types.RoleDriver, VehicleClass: types.VehicleAuto},
		}}
		svc := NewRideService(repo, users, route, &fakePresence{drivers: drivers}, notifier,
			&fakePublisher{}, nopTxManager{}, nopLogger{},
			MatchingOptions{RadiusKm: 2, FilterByVehicleClass: true})

		ride := newRide(t, repo, svc) // requests an auto
		if err := svc.HandleRideRequested(context.Background(), models.RideRequestedMessage{
			RideID:   ride.ID,
			Pickup:   ride.Pickup,
			RadiusKm: 2,
		}); err != nil {
			t.Fatalf("HandleRideRequested: %v", err)
		}

		if len(notifier.sent) != 1 || notifier.sent[0].userID != within {
			t.Errorf("expected only the auto driver to be offered, got %+v", notifier.sent)
		}
	})

	t.Run("geocode failure propagates", func(t *testing.T) {
		repo := newFakeRideRepo()
		route := &fakeRouteProvider{err: errors.New("upstream down")}
		svc := newTestService(repo, route, &fakePresence{drivers: drivers}, newFakeNotifier(), &fakePublisher{})

		err := svc.HandleRideRequested(context.Background(), models.RideRequestedMessage{
			RideID:   uuid.MustNew(),
			Pickup:   "Connaught Place",
			RadiusKm: 2,
		})
		if err == nil {
			t.Fatal("expected an error when geocoding fails")
		}
	})

	t.Run("accepted ride is no longer offered", func(t *testing.T) {
		repo := newFakeRideRepo()
		route := &fakeRouteProvider{distanceKm: 10, durationMin: 25, location: center}
		notifier := newFakeNotifier(atPickup, within)
		svc := newTestService(repo, route, &fakePresence{drivers: drivers}, notifier, &fakePublisher{})

		ride := newRide(t, repo, svc)
		if _, err := svc.Confirm(context.Background(), ride.ID, uuid.MustNew()); err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		before := notifier.sentEvents(types.EventNewRide)

		if err := svc.HandleRideRequested(context.Background(), models.RideRequestedMessage{
			RideID:   ride.ID,
			Pickup:   ride.Pickup,
			RadiusKm: 2,
		}); err != nil {
			t.Fatalf("HandleRideRequested: %v", err)
		}
		if got := notifier.sentEvents(types.EventNewRide); got != before {
			t.Errorf("drivers were offered an already accepted ride")
		}
	})
}
