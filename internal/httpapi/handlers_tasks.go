package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"taskpulse/internal/domain"
	"taskpulse/internal/service"
)

type taskJSON struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"`
	Energy    string    `json:"energy"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTaskJSON(t domain.Task) taskJSON {
	return taskJSON{
		ID:        t.ID,
		Title:     t.Title,
		Duration:  t.Duration,
		Energy:    string(t.Energy),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}

func (a *api) handleTasksList(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	tasks, err := a.taskSvc.List(r.Context(), userID)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskJSON(t))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

type createTaskRequest struct {
	Title           string   `json:"title"`
	Duration        *float64 `json:"duration"`
	DurationMinutes *float64 `json:"durationMinutes"`
	DurationHours   *float64 `json:"durationHours"`
	Energy          string   `json:"energy"`
	EnergyLevel     string   `json:"energyLevel"`
}

func (a *api) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	t, err := a.taskSvc.Create(r.Context(), userID, service.CreateTaskInput{
		Title:           req.Title,
		Duration:        req.Duration,
		DurationMinutes: req.DurationMinutes,
		DurationHours:   req.DurationHours,
		Energy:          req.Energy,
		EnergyLevel:     req.EnergyLevel,
	})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"task": toTaskJSON(t)})
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

func (a *api) handleTasksUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_id", "invalid task id")
		return
	}

	var req updateTaskStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	t, err := a.taskSvc.UpdateStatus(r.Context(), userID, taskID, req.Status)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"task": toTaskJSON(t)})
}

func (a *api) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	taskID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_id", "invalid task id")
		return
	}

	if err := a.taskSvc.Delete(r.Context(), userID, taskID); err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
