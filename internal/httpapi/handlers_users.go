package httpapi

import (
	"net/http"

	"taskpulse/internal/domain"
	"taskpulse/internal/service"
)

func (a *api) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	u, err := a.profileSvc.Me(r.Context(), userID)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": profileUser(u)})
}

type updateMeRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Mood     string `json:"mood"`
	Energy   string `json:"energy"`
}

func (a *api) handleUsersMeUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	u, err := a.profileSvc.UpdateMe(r.Context(), userID, service.UpdateMeInput{
		Email:    req.Email,
		Password: req.Password,
		Mood:     req.Mood,
		Energy:   req.Energy,
	})
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Updated",
		"user":    profileUser(u),
	})
}
