package ride

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

// ---- fakes ----

type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any)            {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)             {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)             {}
func (nopLogger) Error(ctx context.Context, msg string, err error, args ...any) {}
func (nopLogger) GetSlogLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRideRepo keeps rides in memory and mirrors the store's conditional
// update semantics: Confirm and UpdateStatus apply only while the guarded
// precondition holds, under one mutex.
type fakeRideRepo struct {
	mu     sync.Mutex
	rides  map[uuid.UUID]*models.Ride
	users  map[uuid.UUID]*models.User
	events []models.RideEvent
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{
		rides: make(map[uuid.UUID]*models.Ride),
		users: make(map[uuid.UUID]*models.User),
	}
}

func (r *fakeRideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *ride
	stored.ID = uuid.MustNew()
	r.rides[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *fakeRideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	out := *ride
	out.OTP = ""
	return &out, nil
}

func (r *fakeRideRepo) GetWithOTP(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	out := *ride
	return &out, nil
}

func (r *fakeRideRepo) GetWithParties(ctx context.Context, rideID uuid.UUID) (*models.RideWithParties, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	out := *ride
	out.OTP = ""

	rwp := &models.RideWithParties{Ride: out}
	if u, ok := r.users[ride.RiderID]; ok {
		rwp.Rider = u
	}
	if ride.DriverID != nil {
		if u, ok := r.users[*ride.DriverID]; ok {
			rwp.Driver = u
		}
	}
	return rwp, nil
}

func (r *fakeRideRepo) Confirm(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok || ride.Status != types.StatusRequested || ride.DriverID != nil {
		return false, nil
	}
	d := driverID
	ride.DriverID = &d
	ride.Status = types.StatusAccepted
	return true, nil
}

func (r *fakeRideRepo) UpdateStatus(ctx context.Context, rideID uuid.UUID, from, to types.RideStatus, driverID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ride, ok := r.rides[rideID]
	if !ok || ride.Status != from || ride.DriverID == nil || *ride.DriverID != driverID {
		return false, nil
	}
	ride.Status = to
	return true, nil
}

func (r *fakeRideRepo) AppendEvent(ctx context.Context, event *models.RideEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *event)
	return nil
}

type fakeRouteProvider struct {
	distanceKm  float64
	durationMin float64
	location    models.Location
	err         error

	calls int
}

func (p *fakeRouteProvider) Geocode(ctx context.Context, address string) (models.Location, error) {
	p.calls++
	return p.location, p.err
}

func (p *fakeRouteProvider) DistanceTime(ctx context.Context, origin, destination string) (float64, float64, error) {
	p.calls++
	if p.err != nil {
		return 0, 0, p.err
	}
	return p.distanceKm, p.durationMin, nil
}

type fakePresence struct {
	drivers []models.DriverPresence
	err     error
}

func (p *fakePresence) Nearby(ctx context.Context, center models.Location, radiusKm float64) ([]models.DriverPresence, error) {
	if p.err != nil {
		return nil, p.err
	}
	var out []models.DriverPresence
	for _, d := range p.drivers {
		if haversineKm(center, d.Location) <= radiusKm {
			out = append(out, d)
		}
	}
	return out, nil
}

type sentNotification struct {
	userID uuid.UUID
	event  string
}

type fakeNotifier struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]bool
	sent     []sentNotification
	err      error
}

func newFakeNotifier(userIDs ...uuid.UUID) *fakeNotifier {
	n := &fakeNotifier{sessions: make(map[uuid.UUID]bool)}
	for _, id := range userIDs {
		n.sessions[id] = true
	}
	return n
}

func (n *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, event string, payload any) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return false, n.err
	}
	if !n.sessions[userID] {
		return false, nil
	}
	n.sent = append(n.sent, sentNotification{userID: userID, event: event})
	return true, nil
}

func (n *fakeNotifier) sentEvents(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := 0
	for _, s := range n.sent {
		if s.event == event {
			count++
		}
	}
	return count
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []models.RideRequestedMessage
	err      error
}

func (p *fakePublisher) PublishRideRequested(ctx context.Context, msg models.RideRequestedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type fakeUserDirectory struct {
	users map[uuid.UUID]*models.User
}

func (d *fakeUserDirectory) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, types.ErrUserNotFound
}

func newTestService(repo *fakeRideRepo, route *fakeRouteProvider, presence *fakePresence, notifier *fakeNotifier, publisher *fakePublisher) *RideService {
	users := &fakeUserDirectory{users: make(map[uuid.UUID]*models.User)}
	return NewRideService(repo, users, route, presence, notifier, publisher,
		nopTxManager{}, nopLogger{}, MatchingOptions{RadiusKm: 2})
}

// ---- tests ----

func TestCreateRide(t *testing.T) {
	repo := newFakeRideRepo()
	route := &fakeRouteProvider{distanceKm: 10, durationMin: 20}
	publisher := &fakePublisher{}
	svc := newTestService(repo, route, &fakePresence{}, newFakeNotifier(), publisher)

	riderID := uuid.MustNew()
	ride, err := svc.Create(context.Background(), CreateRequest{
		RiderID:      riderID,
		Pickup:       "Connaught Place",
		Destination:  "Indira Gandhi Airport",
		VehicleClass: types.VehicleCar,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ride.Status != types.StatusRequested {
		t.Errorf("status = %q, want %q", ride.Status, types.StatusRequested)
	}
	// car: 50 + 10*15 + 20*2 = 240
	if ride.Fare != 240 {
		t.Errorf("fare = %d, want 240", ride.Fare)
	}
	if len(ride.OTP) != OTPLength {
		t.Errorf("otp length = %d, want %d", len(ride.OTP), OTPLength)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.RideID != ride.ID || msg.Pickup != ride.Pickup || msg.RadiusKm != 2 {
		t.Errorf("unexpected published message: %+v", msg)
	}

	if len(repo.events) != 1 || repo.events[0].NewStatus != types.StatusRequested {
		t.Errorf("expected one requested event, got %+v", repo.events)
	}
}

func TestCreateRideSurvivesPublishFailure(t *testing.T) {
	repo := newFakeRideRepo()
	route := &fakeRouteProvider{distanceKm: 5, durationMin: 10}
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc := newTestService(repo, route, &fakePresence{}, newFakeNotifier(), publisher)

	ride, err := svc.Create(context.Background(), CreateRequest{
		RiderID:      uuid.MustNew(),
		Pickup:       "Saket",
		Destination:  "Hauz Khas",
		VehicleClass: types.VehicleAuto,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Get(context.Background(), ride.ID); err != nil {
		t.Errorf("ride should be persisted despite publish failure: %v", err)
	}
}

func TestCreateRideEmptyAddress(t *testing.T) {
	route := &fakeRouteProvider{distanceKm: 5, durationMin: 10}
	svc := newTestService(newFakeRideRepo(), route, &fakePresence{}, newFakeNotifier(), &fakePublisher{})

	_, err := svc.Create(context.Background(), CreateRequest{
		RiderID:      uuid.MustNew(),
		Pickup:       "",
		Destination:  "Hauz Khas",
		VehicleClass: types.VehicleAuto,
	})
	if !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("err = %v, want ErrEmptyAddress", err)
	}
	if route.calls != 0 {
		t.Errorf("route provider called %d times, want 0", route.calls)
	}
}

func TestConfirmFirstWriterWins(t *testing.T) {
	repo := newFakeRideRepo()
	route := &fakeRouteProvider{distanceKm: 3, durationMin: 8}
	svc := newTestService(repo, route, &fakePresence{}, newFakeNotifier(), &fakePublisher{})

	ride, err := svc.Create(context.Background(), CreateRequest{
		RiderID:      uuid.MustNew(),
		Pickup:       "Karol Bagh",
		Destination:  "Lajpat Nagar",
		VehicleClass: types.VehicleMoto,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	const drivers = 8
	var wg sync.WaitGroup
	results := make([]error, drivers)
	winners := make([]uuid.UUID, drivers)

	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			driverID := uuid.MustNew()
			winners[i] = driverID
			_, results[i] = svc.Confirm(context.Background(), ride.ID, driverID)
		}(i)
	}
	wg.Wait()

	won := 0
	for i, err := range results {
		switch {
		case err == nil:
			won++
			got, gerr := repo.Get(context.Background(), ride.ID)
			if gerr != nil {
				t.Fatalf("Get after confirm: %v", gerr)
			}
			if got.DriverID == nil || *got.DriverID != winners[i] {
				t.Errorf("assigned driver does not match the winner")
			}
		case errors.Is(err, types.ErrRideAlreadyAccepted):
		default:
			t.Errorf("driver %d: unexpected error %v", i, err)
		}
	}
	if won != 1 {
		t.Fatalf("confirm succeeded for %d drivers, want exactly 1", won)
	}
}

func TestConfirmRideNotFound(t *testing.T) {
	svc := newTestService(newFakeRideRepo(), &fakeRouteProvider{}, &fakePresence{}, newFakeNotifier(), &fakePublisher{})

	_, err := svc.Confirm(context.Background(), uuid.MustNew(), uuid.MustNew())
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Fatalf("err = %v, want ErrRideNotFound", err)
	}
}

func TestConfirmNotifiesRider(t *testing.T) {
	repo := newFakeRideRepo()
	riderID := uuid.MustNew()
	notifier := newFakeNotifier(riderID)
	svc := newTestService(repo, &fakeRouteProvider{distanceKm: 3, durationMin: 8}, &fakePresence{}, notifier, &fakePublisher{})

	ride, err := svc.Create(context.Background(), CreateRequest{
		RiderID:      riderID,
		Pickup:       "Dwarka",
		Destination:  "Rohini",
		VehicleClass: types.VehicleAuto,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Confirm(context.Background(), ride.ID, uuid.MustNew()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if got := notifier.sentEvents(types.EventNewRide); got != 1 {
		t.Errorf("rider got %d %q notifications, want 1", got, types.EventNewRide)
	}
}

func TestStartRide(t *testing.T) {
	setup := func(t *testing.T) (*RideService, *fakeRideRepo, *fakeNotifier, *models.Ride, uuid.UUID, string) {
		t.Helper()

		repo := newFakeRideRepo()
		riderID := uuid.MustNew()
		notifier := newFakeNotifier(riderID)
		svc := newTestService(repo, &fakeRouteProvider{distanceKm: 7, durationMin: 15}, &fakePresence{}, notifier, &fakePublisher{})

		ride, err := svc.Create(context.Background(), CreateRequest{
			RiderID:      riderID,
			Pickup:       "Nehru Place",
			Destination:  "Gurgaon",
			VehicleClass: types.VehicleCar,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		driverID := uuid.MustNew()
		if _, err := svc.Confirm(context.Background(), ride.ID, driverID); err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		return svc, repo, notifier, ride, driverID, ride.OTP
	}

	t.Run("success", func(t *testing.T) {
		svc, _, notifier, ride, driverID, otp := setup(t)

		started, err := svc.Start(context.Background(), ride.ID, driverID, otp)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if started.Status != types.StatusOngoing {
			t.Errorf("status = %q, want %q", started.Status, types.StatusOngoing)
		}
		if got := notifier.sentEvents(types.EventRideStarted); got != 1 {
			t.Errorf("rider got %d ride-started notifications, want 1", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _, _, driverID, otp := setup(t)

		_, err := svc.Start(context.Background(), uuid.MustNew(), driverID, otp)
		if !errors.Is(err, types.ErrRideNotFound) {
			t.Fatalf("err = %v, want ErrRideNotFound", err)
		}
	})

	t.Run("wrong driver", func(t *testing.T) {
		svc, _, _, ride, _, otp := setup(t)

		_, err := svc.Start(context.Background(), ride.ID, uuid.MustNew(), otp)
		if !errors.Is(err, types.ErrNotRideDriver) {
			t.Fatalf("err = %v, want ErrNotRideDriver", err)
		}
	})

	t.Run("wrong otp", func(t *testing.T) {
		svc, _, _, ride, driverID, otp := setup(t)

		bad := "000000"
		if bad == otp {
			bad = "000001"
		}
		_, err := svc.Start(context.Background(), ride.ID, driverID, bad)
		if !errors.Is(err, types.ErrInvalidOTP) {
			t.Fatalf("err = %v, want ErrInvalidOTP", err)
		}
	})

	t.Run("already started", func(t *testing.T) {
		svc, _, _, ride, driverID, otp := setup(t)

		if _, err := svc.Start(context.Background(), ride.ID, driverID, otp); err != nil {
			t.Fatalf("first Start: %v", err)
		}
		_, err := svc.Start(context.Background(), ride.ID, driverID, otp)
		if !errors.Is(err, types.ErrRideAlreadyStarted) {
			t.Fatalf("err = %v, want ErrRideAlreadyStarted", err)
		}
	})

	t.Run("not yet accepted", func(t *testing.T) {
		repo := newFakeRideRepo()
		svc := newTestService(repo, &fakeRouteProvider{distanceKm: 7, durationMin: 15}, &fakePresence{}, newFakeNotifier(), &fakePublisher{})

		ride, err := svc.Create(context.Background(), CreateRequest{
			RiderID:      uuid.MustNew(),
			Pickup:       "Nehru Place",
			Destination:  "Gurgaon",
			VehicleClass: types.VehicleCar,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		// No driver ever confirmed, so there is nobody allowed to start it.
		_, err = svc.Start(context.Background(), ride.ID, uuid.MustNew(), ride.OTP)
		if !errors.Is(err, types.ErrNotRideDriver) {
			t.Fatalf("err = %v, want ErrNotRideDriver", err)
		}
	})
}

func TestEndRide(t *testing.T) {
	setup := func(t *testing.T) (*RideService, *fakeNotifier, *models.Ride, uuid.UUID) {
		t.Helper()

		repo := newFakeRideRepo()
		riderID := uuid.MustNew()
		notifier := newFakeNotifier(riderID)
		svc := newTestService(repo, &fakeRouteProvider{distanceKm: 4, durationMin: 12}, &fakePresence{}, notifier, &fakePublisher{})

		ride, err := svc.Create(context.Background(), CreateRequest{
			RiderID:      riderID,
			Pickup:       "Janakpuri",
			Destination:  "Noida",
			VehicleClass: types.VehicleMoto,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		driverID := uuid.MustNew()
		if _, err := svc.Confirm(context.Background(), ride.ID, driverID); err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if _, err := svc.Start(context.Background(), ride.ID, driverID, ride.OTP); err != nil {
			t.Fatalf("Start: %v", err)
		}
		return svc, notifier, ride, driverID
	}

	t.Run("success then idempotent replay", func(t *testing.T) {
		svc, notifier, ride, driverID := setup(t)

		ended, err := svc.End(context.Background(), ride.ID, driverID)
		if err != nil {
			t.Fatalf("End: %v", err)
		}
		if ended.Status != types.StatusCompleted {
			t.Errorf("status = %q, want %q", ended.Status, types.StatusCompleted)
		}

		again, err := svc.End(context.Background(), ride.ID, driverID)
		if err != nil {
			t.Fatalf("replayed End: %v", err)
		}
		if again.Status != types.StatusCompleted {
			t.Errorf("replay status = %q, want %q", again.Status, types.StatusCompleted)
		}
		if got := notifier.sentEvents(types.EventRideEnded); got != 1 {
			t.Errorf("rider got %d ride-ended notifications, want exactly 1", got)
		}
	})

	t.Run("wrong driver", func(t *testing.T) {
		svc, _, ride, _ := setup(t)

		_, err := svc.End(context.Background(), ride.ID, uuid.MustNew())
		if !errors.Is(err, types.ErrNotRideDriver) {
			t.Fatalf("err = %v, want ErrNotRideDriver", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _, driverID := setup(t)

		_, err := svc.End(context.Background(), uuid.MustNew(), driverID)
		if !errors.Is(err, types.ErrRideNotFound) {
			t.Fatalf("err = %v, want ErrRideNotFound", err)
		}
	})

	t.Run("not eligible before start", func(t *testing.T) {
		repo := newFakeRideRepo()
		svc := newTestService(repo, &fakeRouteProvider{distanceKm: 4, durationMin: 12}, &fakePresence{}, newFakeNotifier(), &fakePublisher{})

		ride, err := svc.Create(context.Background(), CreateRequest{
			RiderID:      uuid.MustNew(),
			Pickup:       "Janakpuri",
			Destination:  "Noida",
			VehicleClass: types.VehicleMoto,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		driverID := uuid.MustNew()
		if _, err := svc.Confirm(context.Background(), ride.ID, driverID); err != nil {
			t.Fatalf("Confirm: %v", err)
		}

		_, err = svc.End(context.Background(), ride.ID, driverID)
		if !errors.Is(err, types.ErrRideNotEligibleToEnd) {
			t.Fatalf("err = %v, want ErrRideNotEligibleToEnd", err)
		}
	})
}

func TestGetFare(t *testing.T) {
	route := &fakeRouteProvider{distanceKm: 10, durationMin: 30}
	svc := newTestService(newFakeRideRepo(), route, &fakePresence{}, newFakeNotifier(), &fakePublisher{})

	est, err := svc.GetFare(context.Background(), "Connaught Place", "Saket")
	if err != nil {
		t.Fatalf("GetFare: %v", err)
	}

	want := map[types.VehicleClass]int64{
		types.VehicleAuto: 160, // 30 + 10*10 + 30*1
		types.VehicleCar:  260, // 50 + 10*15 + 30*2
		types.VehicleMoto: 130, // 20 + 10*8 + 30*1
	}
	for class, fare := range want {
		if est.Fares[class] != fare {
			t.Errorf("fare[%s] = %d, want %d", class, est.Fares[class], fare)
		}
	}
	if est.DistanceKm != 10 || est.DurationMin != 30 {
		t.Errorf("estimate carries distance %v / duration %v, want 10 / 30", est.DistanceKm, est.DurationMin)
	}
}
