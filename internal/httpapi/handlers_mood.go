package httpapi

import (
	"net/http"

	"taskpulse/internal/domain"
)

func (a *api) handleMoodGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	mood, energy, err := a.profileSvc.Mood(r.Context(), userID)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"mood":   string(mood),
		"energy": string(energy),
	})
}

type moodRequest struct {
	Mood   string `json:"mood"`
	Energy string `json:"energy"`
}

func (a *api) handleMoodSet(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req moodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.profileSvc.SetMood(r.Context(), userID, req.Mood, req.Energy); err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
