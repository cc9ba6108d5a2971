package domain

import (
	"strings"
	"time"
)

type Mood string

const (
	MoodHappy  Mood = "HAPPY"
	MoodNormal Mood = "NORMAL"
	MoodTired  Mood = "TIRED"
	MoodSad    Mood = "SAD"

	// MoodNeutral is never stored; it is the read-time default for users
	// who have not recorded a mood yet.
	MoodNeutral Mood = "NEUTRAL"
)

type Energy string

const (
	EnergyLow    Energy = "LOW"
	EnergyMedium Energy = "MEDIUM"
	EnergyHigh   Energy = "HIGH"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// NormalizeMood maps free-form input onto the stored mood vocabulary.
// Unrecognized values collapse to "" so callers can skip the update.
func NormalizeMood(s string) Mood {
	switch Mood(strings.ToUpper(strings.TrimSpace(s))) {
	case MoodHappy:
		return MoodHappy
	case MoodNormal:
		return MoodNormal
	case MoodTired:
		return MoodTired
	case MoodSad:
		return MoodSad
	}
	return ""
}

// NormalizeEnergy maps free-form input onto LOW/MEDIUM/HIGH, "" otherwise.
func NormalizeEnergy(s string) Energy {
	switch Energy(strings.ToUpper(strings.TrimSpace(s))) {
	case EnergyLow:
		return EnergyLow
	case EnergyMedium:
		return EnergyMedium
	case EnergyHigh:
		return EnergyHigh
	}
	return ""
}

// NormalizeStatus maps free-form input onto the task status vocabulary,
// "" for anything outside it.
func NormalizeStatus(s string) TaskStatus {
	switch TaskStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusInProgress:
		return StatusInProgress
	case StatusCompleted:
		return StatusCompleted
	}
	return ""
}

// NextStatus advances one step on the PENDING -> IN_PROGRESS -> COMPLETED
// cycle, wrapping back to PENDING.
func NextStatus(s TaskStatus) TaskStatus {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// PrevStatus inverts the forward cycle without wrapping: PENDING stays
// PENDING.
func PrevStatus(s TaskStatus) TaskStatus {
	switch s {
	case StatusCompleted:
		return StatusInProgress
	case StatusInProgress:
		return StatusPending
	default:
		return StatusPending
	}
}

type User struct {
	ID        string
	Email     string
	Mood      Mood   // "" when never set
	Energy    Energy // "" when never set
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MoodOrDefault applies the read-time default for users without a mood.
func (u User) MoodOrDefault() Mood {
	if u.Mood == "" {
		return MoodNeutral
	}
	return u.Mood
}

// EnergyOrDefault applies the read-time default for users without an energy.
func (u User) EnergyOrDefault() Energy {
	if u.Energy == "" {
		return EnergyMedium
	}
	return u.Energy
}

type UserWithPassword struct {
	User
	PasswordHash string

	// Reset token fields live on the user row: at most one live token per
	// user, overwritten on re-issue, nulled on successful reset.
	ResetToken       string
	ResetTokenExpiry *time.Time
}

// UserUpdate carries the optional fields of a profile update. Nil means
// "leave unchanged".
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	Mood         *Mood
	Energy       *Energy
}

type Task struct {
	ID        int64
	OwnerID   string
	Title     string
	Duration  int // minutes
	Energy    Energy
	Status    TaskStatus
	CreatedAt time.Time
}

// NormalizeEmail is the canonical form used as the natural key: trimmed and
// case-folded.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
