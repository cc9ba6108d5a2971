package service

import (
	"context"
	"errors"
	"testing"

	"taskpulse/internal/auth"
	"taskpulse/internal/domain"
)

type stubProfileStore struct {
	t *testing.T

	getUserByIDFunc func(context.Context, string) (domain.User, error)
	updateUserFunc  func(context.Context, string, domain.UserUpdate) (domain.User, error)
}

func (s *stubProfileStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getUserByIDFunc != nil {
		return s.getUserByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetUserByID called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubProfileStore) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) (domain.User, error) {
	if s.updateUserFunc != nil {
		return s.updateUserFunc(ctx, userID, upd)
	}
	s.t.Fatalf("UpdateUser called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func TestUpdateMeFieldGates(t *testing.T) {
	var got domain.UserUpdate
	store := &stubProfileStore{
		t: t,
		updateUserFunc: func(_ context.Context, _ string, upd domain.UserUpdate) (domain.User, error) {
			got = upd
			return domain.User{}, nil
		},
	}
	svc := &ProfileService{Users: store}

	_, err := svc.UpdateMe(context.Background(), "u1", UpdateMeInput{
		Email:    " New@Example.COM ",
		Password: "longenough",
		Mood:     "happy",
		Energy:   "high",
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}

	if got.Email == nil || *got.Email != "new@example.com" {
		t.Fatalf("email not normalized: %v", got.Email)
	}
	if got.PasswordHash == nil {
		t.Fatalf("password should have been hashed")
	}
	if ok, _ := auth.VerifyPassword(*got.PasswordHash, "longenough"); !ok {
		t.Fatalf("stored hash does not verify")
	}
	if got.Mood == nil || *got.Mood != domain.MoodHappy {
		t.Fatalf("mood: %v", got.Mood)
	}
	if got.Energy == nil || *got.Energy != domain.EnergyHigh {
		t.Fatalf("energy: %v", got.Energy)
	}
}

func TestUpdateMeSkipsFailingFields(t *testing.T) {
	var got domain.UserUpdate
	store := &stubProfileStore{
		t: t,
		updateUserFunc: func(_ context.Context, _ string, upd domain.UserUpdate) (domain.User, error) {
			got = upd
			return domain.User{}, nil
		},
	}
	svc := &ProfileService{Users: store}

	// A short password and an unknown mood are silently skipped, not errors.
	_, err := svc.UpdateMe(context.Background(), "u1", UpdateMeInput{
		Password: "tiny",
		Mood:     "ecstatic",
		Energy:   "over 9000",
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}

	if got.Email != nil || got.PasswordHash != nil || got.Mood != nil || got.Energy != nil {
		t.Fatalf("expected all fields skipped, got %+v", got)
	}
}

func TestMoodReadTimeDefaults(t *testing.T) {
	store := &stubProfileStore{
		t: t,
		getUserByIDFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "u1"}, nil
		},
	}
	svc := &ProfileService{Users: store}

	mood, energy, err := svc.Mood(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Mood: %v", err)
	}
	if mood != domain.MoodNeutral {
		t.Fatalf("mood default %s, want NEUTRAL", mood)
	}
	if energy != domain.EnergyMedium {
		t.Fatalf("energy default %s, want MEDIUM", energy)
	}
}

func TestMoodMissingUserReadsAsDefaults(t *testing.T) {
	store := &stubProfileStore{
		t: t,
		getUserByIDFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := &ProfileService{Users: store}

	mood, energy, err := svc.Mood(context.Background(), "gone")
	if err != nil {
		t.Fatalf("Mood: %v", err)
	}
	if mood != domain.MoodNeutral || energy != domain.EnergyMedium {
		t.Fatalf("missing user: got %s/%s, want NEUTRAL/MEDIUM", mood, energy)
	}
}

func TestSetMoodNormalizes(t *testing.T) {
	var got domain.UserUpdate
	store := &stubProfileStore{
		t: t,
		updateUserFunc: func(_ context.Context, _ string, upd domain.UserUpdate) (domain.User, error) {
			got = upd
			return domain.User{}, nil
		},
	}
	svc := &ProfileService{Users: store}

	if err := svc.SetMood(context.Background(), "u1", " tired ", "low"); err != nil {
		t.Fatalf("SetMood: %v", err)
	}
	if got.Mood == nil || *got.Mood != domain.MoodTired {
		t.Fatalf("mood: %v", got.Mood)
	}
	if got.Energy == nil || *got.Energy != domain.EnergyLow {
		t.Fatalf("energy: %v", got.Energy)
	}
}
