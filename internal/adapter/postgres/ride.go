package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

const ridePublicColumns = `id, rider_id, driver_id, pickup, destination, vehicle_class, fare, status, created_at, updated_at`

func scanRide(row pgx.Row, withOTP bool) (*models.Ride, error) {
	var r models.Ride
	var err error
	if withOTP {
		err = row.Scan(&r.ID, &r.RiderID, &r.DriverID, &r.Pickup, &r.Destination,
			&r.VehicleClass, &r.Fare, &r.OTP, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	} else {
		err = row.Scan(&r.ID, &r.RiderID, &r.DriverID, &r.Pickup, &r.Destination,
			&r.VehicleClass, &r.Fare, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("scan ride: %w", err)
	}
	return &r, nil
}

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	query := `
		INSERT INTO rides (rider_id, pickup, destination, vehicle_class, fare, otp, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ridePublicColumns

	created, err := scanRide(TxOrDB(ctx, r.db).QueryRow(ctx, query,
		ride.RiderID, ride.Pickup, ride.Destination, ride.VehicleClass,
		ride.Fare, ride.OTP, ride.Status), false)
	if err != nil {
		return nil, fmt.Errorf("insert ride: %w", err)
	}
	created.OTP = ride.OTP
	return created, nil
}

func (r *RideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	query := `SELECT ` + ridePublicColumns + ` FROM rides WHERE id = $1`
	return scanRide(TxOrDB(ctx, r.db).QueryRow(ctx, query, rideID), false)
}

// GetWithOTP is the only read that surfaces the OTP. It backs the
// start-ride check and must never feed an API response.
func (r *RideRepo) GetWithOTP(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	query := `
		SELECT id, rider_id, driver_id, pickup, destination, vehicle_class, fare, otp, status, created_at, updated_at
		FROM rides WHERE id = $1`
	return scanRide(TxOrDB(ctx, r.db).QueryRow(ctx, query, rideID), true)
}

func (r *RideRepo) GetWithParties(ctx context.Context, rideID uuid.UUID) (*models.RideWithParties, error) {
	query := `
		SELECT r.id, r.rider_id, r.driver_id, r.pickup, r.destination, r.vehicle_class, r.fare, r.status, r.created_at, r.updated_at,
		       u.id, u.role, u.first_name, u.last_name, u.email, u.vehicle_plate, u.vehicle_class, u.created_at,
		       d.id, d.role, d.first_name, d.last_name, d.email, d.vehicle_plate, d.vehicle_class, d.created_at
		FROM rides r
		JOIN users u ON u.id = r.rider_id
		LEFT JOIN users d ON d.id = r.driver_id
		WHERE r.id = $1`

	var (
		out   models.RideWithParties
		rider models.User

		// LEFT JOIN columns for the driver are NULL until one is assigned.
		dID      *uuid.UUID
		dRole    *types.UserRole
		dFirst   *string
		dLast    *string
		dEmail   *string
		dPlate   *string
		dClass   *types.VehicleClass
		dCreated *time.Time
	)

	err := TxOrDB(ctx, r.db).QueryRow(ctx, query, rideID).Scan(
		&out.ID, &out.RiderID, &out.DriverID, &out.Pickup, &out.Destination,
		&out.VehicleClass, &out.Fare, &out.Status, &out.CreatedAt, &out.UpdatedAt,
		&rider.ID, &rider.Role, &rider.FirstName, &rider.LastName, &rider.Email,
		&rider.VehiclePlate, &rider.VehicleClass, &rider.CreatedAt,
		&dID, &dRole, &dFirst, &dLast, &dEmail, &dPlate, &dClass, &dCreated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("scan ride with parties: %w", err)
	}

	out.Rider = &rider
	if dID != nil {
		driver := models.User{
			ID:        *dID,
			Role:      *dRole,
			FirstName: *dFirst,
			LastName:  *dLast,
			Email:     *dEmail,
			CreatedAt: *dCreated,
		}
		if dPlate != nil {
			driver.VehiclePlate = *dPlate
		}
		if dClass != nil {
			driver.VehicleClass = *dClass
		}
		out.Driver = &driver
	}
	return &out, nil
}

// Confirm assigns the driver while the ride is still unclaimed. The WHERE
// clause is the whole concurrency story: of N racing drivers exactly one
// update matches a row.
func (r *RideRepo) Confirm(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	query := `
		UPDATE rides
		SET status = $3, driver_id = $2, updated_at = now()
		WHERE id = $1 AND status = $4 AND driver_id IS NULL`

	tag, err := TxOrDB(ctx, r.db).Exec(ctx, query, rideID, driverID,
		types.StatusAccepted, types.StatusRequested)
	if err != nil {
		return false, fmt.Errorf("confirm ride: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateStatus applies from -> to only while the row still holds from and
// is assigned to driverID.
func (r *RideRepo) UpdateStatus(ctx context.Context, rideID uuid.UUID, from, to types.RideStatus, driverID uuid.UUID) (bool, error) {
	query := `
		UPDATE rides
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3 AND driver_id = $4`

	tag, err := TxOrDB(ctx, r.db).Exec(ctx, query, rideID, to, from, driverID)
	if err != nil {
		return false, fmt.Errorf("update ride status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RideRepo) AppendEvent(ctx context.Context, event *models.RideEvent) error {
	query := `
		INSERT INTO ride_events (ride_id, old_status, new_status, actor_id)
		VALUES ($1, $2, $3, $4)`

	_, err := TxOrDB(ctx, r.db).Exec(ctx, query,
		event.RideID, event.OldStatus, event.NewStatus, event.ActorID)
	if err != nil {
		return fmt.Errorf("insert ride event: %w", err)
	}
	return nil
}

// ListEvents returns the transition history of one ride, oldest first.
func (r *RideRepo) ListEvents(ctx context.Context, rideID uuid.UUID) ([]models.RideEvent, error) {
	query := `
		SELECT id, ride_id, old_status, new_status, actor_id, created_at
		FROM ride_events WHERE ride_id = $1 ORDER BY id`

	rows, err := TxOrDB(ctx, r.db).Query(ctx, query, rideID)
	if err != nil {
		return nil, fmt.Errorf("query ride events: %w", err)
	}
	defer rows.Close()

	var events []models.RideEvent
	for rows.Next() {
		var e models.RideEvent
		if err := rows.Scan(&e.ID, &e.RideID, &e.OldStatus, &e.NewStatus, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ride event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
