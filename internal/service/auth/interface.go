package auth

import (
	"context"
	"time"

	"gocab/internal/domain/models"
	"gocab/pkg/uuid"
)

type (
	// UserRepo persists rider and driver accounts. Create returns
	// types.ErrEmailTaken on a duplicate email.
	UserRepo interface {
		Create(ctx context.Context, user *models.User) (*models.User, error)
		GetByEmail(ctx context.Context, email string) (*models.User, error)
		GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	}

	// TokenBlacklist stores revoked token digests until they would have
	// expired anyway.
	TokenBlacklist interface {
		Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
		IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	}
)
