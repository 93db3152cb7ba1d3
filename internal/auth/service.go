package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/models"
	"github.com/inkstream/inkstream/pkg/logging"
)

var (
	// ErrEmailTaken is returned when registering with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadCredentials is returned when login email/password do not match
	ErrBadCredentials = errors.New("invalid email or password")
)

// Service handles account registration and login
type Service struct {
	accounts *db.AccountRepository
	profiles *db.ProfileRepository
	tokens   *TokenManager
	logger   *zap.Logger
}

// NewService creates a new auth service
func NewService(accounts *db.AccountRepository, profiles *db.ProfileRepository, tokens *TokenManager) *Service {
	return &Service{
		accounts: accounts,
		profiles: profiles,
		tokens:   tokens,
		logger:   logging.WithComponent("auth"),
	}
}

// Register creates an account and its profile and returns the new user id.
// The profile row is the display identity the resolver chain prefers.
func (s *Service) Register(ctx context.Context, email, password, nickname string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email address")
	}
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	profile := &models.Profile{
		UserID:    account.ID,
		Email:     email,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// Account exists but profile is missing; the resolver chain degrades
		// gracefully, so log and keep the account usable.
		s.logger.Error("failed to create profile for new account",
			zap.String("user_id", account.ID), zap.Error(err))
	}

	s.logger.Info("account registered", zap.String("user_id", account.ID))
	return account.ID, nil
}

// Login verifies credentials and returns a session token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return "", ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
