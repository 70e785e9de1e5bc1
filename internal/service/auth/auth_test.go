package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"gocab/internal/domain/models"
	"gocab/internal/domain/types"
	"gocab/pkg/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any)            {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)             {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)             {}
func (nopLogger) Error(ctx context.Context, msg string, err error, args ...any) {}
func (nopLogger) GetSlogLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, types.ErrEmailTaken
	}
	stored := *user
	stored.ID = uuid.MustNew()
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored

	out := stored
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: make(map[string]bool)}
}

func (b *fakeBlacklist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenHash] = true
	return nil
}

func (b *fakeBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[tokenHash], nil
}

func newTestService() (*AuthService, *fakeUserRepo, *fakeBlacklist) {
	users := newFakeUserRepo()
	blacklist := newFakeBlacklist()
	svc := NewAuthService(users, blacklist, nopLogger{}, "test-secret", time.Hour)
	return svc, users, blacklist
}

func registerRider(t *testing.T, svc *AuthService, email string) (*models.User, string) {
	t.Helper()

	user, token, err := svc.Register(context.Background(), RegisterRequest{
		Role:      types.RoleRider,
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     email,
		Password:  "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user, token
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _, _ := newTestService()

	user, token := registerRider(t, svc, "asha@example.com")
	if user.ID.IsZero() {
		t.Fatal("registered user has zero id")
	}
	if user.Role != types.RoleRider {
		t.Errorf("role = %q, want rider", user.Role)
	}

	got, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated as %s, want %s", got.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	registerRider(t, svc, "asha@example.com")
	_, _, err := svc.Register(context.Background(), RegisterRequest{
		Role:      types.RoleRider,
		FirstName: "Other",
		LastName:  "Person",
		Email:     "asha@example.com",
		Password:  "different password",
	})
	if !errors.Is(err, types.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService()
	user, _ := registerRider(t, svc, "asha@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		got, token, err := svc.Login(context.Background(), "asha@example.com", "correct horse battery")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.ID != user.ID || token == "" {
			t.Errorf("unexpected login result")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "asha@example.com", "wrong")
		if !errors.Is(err, types.ErrInvalidLogin) {
			t.Fatalf("err = %v, want ErrInvalidLogin", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
		if !errors.Is(err, types.ErrInvalidLogin) {
			t.Fatalf("err = %v, want ErrInvalidLogin", err)
		}
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestService()
	_, token := registerRider(t, svc, "asha@example.com")

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	_, err := svc.Authenticate(context.Background(), token)
	if !errors.Is(err, types.ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, _, _ := newTestService()
	_, token := registerRider(t, svc, "asha@example.com")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"tampered signature", token[:len(token)-2] + "xx"},
		{"wrong secret", signedWithOtherSecret(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.token)
			if !errors.Is(err, types.ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func signedWithOtherSecret(t *testing.T) string {
	t.Helper()

	other := NewAuthService(newFakeUserRepo(), newFakeBlacklist(), nopLogger{}, "another-secret", time.Hour)
	token, err := other.issueToken(uuid.MustNew(), types.RoleDriver)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	return token
}

func TestAuthenticateDeletedUser(t *testing.T) {
	svc, users, _ := newTestService()
	user, token := registerRider(t, svc, "asha@example.com")

	users.mu.Lock()
	delete(users.byID, user.ID)
	users.mu.Unlock()

	_, err := svc.Authenticate(context.Background(), token)
	if !errors.Is(err, types.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestIssuedTokenShape(t *testing.T) {
	svc, _, _ := newTestService()

	token, err := svc.issueToken(uuid.MustNew(), types.RoleDriver)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q is not a three-part JWT", token)
	}

	claims, err := svc.parseToken(token)
	if err != nil {
		t.Fatalf("parseToken: %v", err)
	}
	if claims.Role != types.RoleDriver {
		t.Errorf("role claim = %q, want driver", claims.Role)
	}
	if claims.ID == "" {
		t.Error("token has no jti")
	}
}
