package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"taskpulse/internal/auth"
	"taskpulse/internal/domain"
)

type UsersStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error)
	GetUserByResetToken(ctx context.Context, token string) (domain.UserWithPassword, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	ResetPassword(ctx context.Context, userID, passwordHash string) error
}

// Mailer dispatches the reset link. Failures propagate to the caller as
// internal errors, distinct from "user not found".
type Mailer interface {
	SendPasswordReset(to, resetLink string) error
}

type AuthService struct {
	Users  UsersStore
	Tokens *auth.TokenIssuer
	Mailer Mailer

	// ResetBaseURL is the frontend origin the reset link points at.
	ResetBaseURL string

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates a user from a normalized email. The lookup-then-create
// dance keeps the 409 cheap; the unique index on email is the real guarantee
// and also maps to ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = domain.NormalizeEmail(email)

	_, err := s.Users.GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	return s.Users.CreateUser(ctx, email, passwordHash)
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password collapse into the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = domain.NormalizeEmail(email)

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	return s.Tokens.IssueSession(u.ID)
}

// ForgotPassword issues a reset token, persists it on the user row
// (overwriting any live one) and mails the link. The user lookup leaks
// existence via ErrNotFound; that asymmetry with Login is deliberate and
// long-standing.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, expiry, err := auth.NewResetToken(s.now())
	if err != nil {
		return err
	}
	if err := s.Users.SetResetToken(ctx, u.ID, token, expiry); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.ResetBaseURL, url.QueryEscape(token))
	if err := s.Mailer.SendPasswordReset(u.Email, link); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token. The new hash and the token clear land
// in one store write, so the token cannot outlive the password it reset.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.Users.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}

	if u.ResetTokenExpiry == nil || !s.now().Before(*u.ResetTokenExpiry) {
		return domain.ErrResetTokenExpired
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.ResetPassword(ctx, u.ID, passwordHash)
}
