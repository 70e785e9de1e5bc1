package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/hasher"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/passhash"
	"gocab/pkg/uuid"
)

// AuthService registers accounts, issues and verifies bearer tokens and
// keeps a revocation list for logged-out tokens.
type AuthService struct {
	users     UserRepo
	blacklist TokenBlacklist
	log       logger.Logger

	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users UserRepo, blacklist TokenBlacklist, log logger.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		log:       log,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterRequest is the validated input for Register. Vehicle fields are
// required for drivers and must be empty for riders; the handler enforces
// that before calling.
type RegisterRequest struct {
	Role         types.UserRole
	FirstName    string
	LastName     string
	Email        string
	Password     string
	VehiclePlate string
	VehicleClass types.VehicleClass
}

// Register creates the account and logs it straight in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	ctx = wrap.WithAction(ctx, "register")

	hash, err := passhash.Hash(req.Password)
	if err != nil {
		return nil, "", wrap.Error(ctx, fmt.Errorf("could not hash password: %w", err))
	}

	user := &models.User{
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		VehiclePlate: req.VehiclePlate,
		VehicleClass: req.VehicleClass,
	}

	user, err = s.users.Create(ctx, user)
	if err != nil {
		return nil, "", wrap.Error(ctx, err)
	}

	token, err := s.issueToken(user.ID, user.Role)
	if err != nil {
		return nil, "", wrap.Error(ctx, err)
	}

	s.log.Info(wrap.WithUserID(ctx, user.ID.String()), "user registered", "role", user.Role)
	return user, token, nil
}

// Login checks the credentials and issues a fresh token. Unknown email and
// wrong password collapse into the same error so the response does not leak
// which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	ctx = wrap.WithAction(ctx, "login")

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, "", types.ErrInvalidLogin
		}
		return nil, "", wrap.Error(ctx, err)
	}

	if err := passhash.Verify(password, user.PasswordHash); err != nil {
		return nil, "", types.ErrInvalidLogin
	}

	token, err := s.issueToken(user.ID, user.Role)
	if err != nil {
		return nil, "", wrap.Error(ctx, err)
	}
	return user, token, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	ctx = wrap.WithAction(ctx, "logout")

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		} else {
			return nil // already expired, nothing to revoke
		}
	}

	if err := s.blacklist.Revoke(ctx, hasher.Hash(tokenString), ttl); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not revoke token: %w", err))
	}
	return nil
}

// Authenticate resolves a bearer token to its user, rejecting revoked
// tokens. The auth middleware calls this on every authenticated request.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "authenticate")

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, hasher.Hash(tokenString))
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not check revocation list: %w", err))
	}
	if revoked {
		return nil, types.ErrTokenRevoked
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, types.ErrInvalidToken
		}
		return nil, wrap.Error(ctx, err)
	}
	return user, nil
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
