package service

import (
	"context"
	"errors"
	"strings"

	"taskpulse/internal/auth"
	"taskpulse/internal/domain"
)

type ProfileUsersStore interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) (domain.User, error)
}

type ProfileService struct {
	Users ProfileUsersStore
}

func (s *ProfileService) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.Users.GetUserByID(ctx, userID)
}

// UpdateMeInput carries the raw optional fields of a profile update. Each
// field has its own gate; a field that fails its gate is skipped, not an
// error. The password gate (trimmed length >= 6) only applies here; login
// and registration accept anything.
type UpdateMeInput struct {
	Email    string
	Password string
	Mood     string
	Energy   string
}

func (s *ProfileService) UpdateMe(ctx context.Context, userID string, in UpdateMeInput) (domain.User, error) {
	var upd domain.UserUpdate

	if email := domain.NormalizeEmail(in.Email); email != "" {
		upd.Email = &email
	}
	if password := strings.TrimSpace(in.Password); len(password) >= 6 {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return domain.User{}, err
		}
		upd.PasswordHash = &hash
	}
	if mood := domain.NormalizeMood(in.Mood); mood != "" {
		upd.Mood = &mood
	}
	if energy := domain.NormalizeEnergy(in.Energy); energy != "" {
		upd.Energy = &energy
	}

	return s.Users.UpdateUser(ctx, userID, upd)
}

// Mood returns today's mood and energy with the read-time defaults applied.
// A missing user row also reads as the defaults, so a stale session never
// turns a mood check into a 404.
func (s *ProfileService) Mood(ctx context.Context, userID string) (domain.Mood, domain.Energy, error) {
	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.MoodNeutral, domain.EnergyMedium, nil
		}
		return "", "", err
	}
	return u.MoodOrDefault(), u.EnergyOrDefault(), nil
}

func (s *ProfileService) SetMood(ctx context.Context, userID, mood, energy string) error {
	var upd domain.UserUpdate
	if m := domain.NormalizeMood(mood); m != "" {
		upd.Mood = &m
	}
	if e := domain.NormalizeEnergy(energy); e != "" {
		upd.Energy = &e
	}

	_, err := s.Users.UpdateUser(ctx, userID, upd)
	return err
}
