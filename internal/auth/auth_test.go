package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/models"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Account{}, &models.Profile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := db.NewRepository(gdb)
	tokens := NewTokenManager("test-secret", time.Hour)
	return NewService(db.NewAccountRepository(repo), db.NewProfileRepository(repo), tokens)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Verify = %q, want user-1", userID)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify(%q) = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		token, err := other.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify with wrong secret = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager("secret", -time.Minute)
		token, err := expired.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify expired token = %v, want ErrInvalidToken", err)
		}
	})
}

func TestService_RegisterLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	userID, err := svc.Register(ctx, "Alice@Example.com", "password123", "Alice")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if userID == "" {
		t.Fatal("Register returned empty user id")
	}

	// Email is normalized, so the lowercase form logs in
	token, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("Login returned empty token")
	}

	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Login with wrong password = %v, want ErrBadCredentials", err)
	}

	if _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("Login with unknown email = %v, want ErrBadCredentials", err)
	}

	if _, err := svc.Register(ctx, "alice@example.com", "password456", "Alice2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Register = %v, want ErrEmailTaken", err)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "password123", "x"); err == nil {
		t.Error("expected error for invalid email")
	}
	if _, err := svc.Register(ctx, "a@b.com", "short", "x"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()

	if _, ok := UserIDFromContext(ctx); ok {
		t.Error("empty context should have no user")
	}

	ctx = WithUserID(ctx, "user-9")
	id, ok := ContextProvider{}.CurrentUserID(ctx)
	if !ok || id != "user-9" {
		t.Errorf("CurrentUserID = %q, %v; want user-9, true", id, ok)
	}
}
