package httpapi

import (
	"net/http"
	"strings"

	"taskpulse/internal/domain"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *api) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		WriteError(w, http.StatusBadRequest, "missing_data", "Missing data")
		return
	}

	ip := clientIP(r)
	email := domain.NormalizeEmail(req.Email)
	if !a.resetLimiter.Allow("ip:"+ip) || !a.resetLimiter.Allow("email:"+email) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	if err := a.authSvc.ForgotPassword(r.Context(), req.Email); err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"message": "Reset email sent"})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (a *api) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if req.Token == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "missing_data", "Missing data")
		return
	}

	if err := a.authSvc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"message": "Password updated"})
}
