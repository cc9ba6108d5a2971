package httpapi

import (
	"net/http"

	"taskpulse/internal/domain"
	"taskpulse/internal/service"
)

type suggestRequest struct {
	Prompt string `json:"prompt"`
	Tasks  []struct {
		Status string `json:"status"`
	} `json:"tasks"`
}

// handleSuggest runs the canned suggestion heuristic over whatever task
// snapshot the client sends. The payload carries full task objects; only the
// statuses matter here, so unknown fields pass through undecoded.
func (a *api) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUserID(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req suggestRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	tasks := make([]domain.Task, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		tasks = append(tasks, domain.Task{Status: domain.NormalizeStatus(t.Status)})
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"suggestions": service.Suggest(req.Prompt, tasks),
	})
}
