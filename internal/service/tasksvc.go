package service

import (
	"context"
	"math"
	"strings"

	"taskpulse/internal/domain"
)

type TasksStore interface {
	ListTasks(ctx context.Context, ownerID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, ownerID, title string, duration int, energy domain.Energy) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, ownerID string, taskID int64, status domain.TaskStatus) (domain.Task, error)
	DeleteTask(ctx context.Context, ownerID string, taskID int64) error
}

type TaskService struct {
	Tasks TasksStore
}

// CreateTaskInput mirrors the wire payload: duration can arrive as minutes
// (two spellings) or hours, and energy has a legacy "energyLevel" alias.
// Nil means the field was absent.
type CreateTaskInput struct {
	Title           string
	Duration        *float64
	DurationMinutes *float64
	DurationHours   *float64
	Energy          string
	EnergyLevel     string
}

// resolveDuration applies the precedence duration > durationMinutes >
// durationHours (x60), rounding to whole minutes. Zero, negative and
// non-finite values resolve to 0, which callers reject.
func (in CreateTaskInput) resolveDuration() int {
	var v float64
	switch {
	case in.Duration != nil:
		v = *in.Duration
	case in.DurationMinutes != nil:
		v = *in.DurationMinutes
	case in.DurationHours != nil:
		v = *in.DurationHours * 60
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Round(v))
}

// resolveEnergy prefers energy over the energyLevel alias; unrecognized
// values fall through to MEDIUM.
func (in CreateTaskInput) resolveEnergy() domain.Energy {
	if e := domain.NormalizeEnergy(in.Energy); e != "" {
		return e
	}
	if e := domain.NormalizeEnergy(in.EnergyLevel); e != "" {
		return e
	}
	return domain.EnergyMedium
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.Tasks.ListTasks(ctx, ownerID)
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Task{}, domain.NewValidationError(map[string]string{"title": "required"})
	}

	duration := in.resolveDuration()
	if duration <= 0 {
		return domain.Task{}, domain.NewValidationError(map[string]string{"duration": "must be a positive number of minutes"})
	}

	return s.Tasks.CreateTask(ctx, ownerID, title, duration, in.resolveEnergy())
}

// UpdateStatus validates the label and performs the owner-scoped conditional
// write; a foreign or missing id comes back as ErrNotFound either way.
func (s *TaskService) UpdateStatus(ctx context.Context, ownerID string, taskID int64, rawStatus string) (domain.Task, error) {
	status := domain.NormalizeStatus(rawStatus)
	if status == "" {
		return domain.Task{}, domain.NewValidationError(map[string]string{"status": "must be PENDING, IN_PROGRESS or COMPLETED"})
	}
	return s.Tasks.UpdateTaskStatus(ctx, ownerID, taskID, status)
}

func (s *TaskService) Delete(ctx context.Context, ownerID string, taskID int64) error {
	return s.Tasks.DeleteTask(ctx, ownerID, taskID)
}
