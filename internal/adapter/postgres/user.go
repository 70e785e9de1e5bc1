package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	pgdb "gocab/pkg/postgres"
	"gocab/pkg/uuid"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, role, first_name, last_name, email, password_hash, vehicle_plate, vehicle_class, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Role, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.VehiclePlate, &u.VehicleClass, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (role, first_name, last_name, email, password_hash, vehicle_plate, vehicle_class)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(TxOrDB(ctx, r.db).QueryRow(ctx, query,
		user.Role, user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.VehiclePlate, user.VehicleClass))
	if err != nil {
		if pgdb.IsUniqueViolation(err) {
			return nil, types.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(TxOrDB(ctx, r.db).QueryRow(ctx, query, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(TxOrDB(ctx, r.db).QueryRow(ctx, query, id))
}
