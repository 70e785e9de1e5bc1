package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

// Claims is the JWT payload issued at login. The jti lets a single token
// be revoked without keying the blacklist on the whole signed string.
type Claims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   types.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(userID uuid.UUID, role types.UserRole) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.MustNew().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}
	return signed, nil
}

// parseToken verifies the signature and expiry, rejecting any signing
// method other than the one we issue with.
func (s *AuthService) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, types.ErrInvalidToken
	}
	if claims.UserID.IsZero() || !claims.Role.IsValid() {
		return nil, types.ErrInvalidToken
	}
	return claims, nil
}
