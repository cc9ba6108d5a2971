package httpapi

import (
	"net/http"
	"strings"

	"taskpulse/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type publicUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Mood   string `json:"mood,omitempty"`
	Energy string `json:"energy,omitempty"`
}

func registeredUser(u domain.User) publicUser {
	return publicUser{ID: u.ID, Email: u.Email}
}

func profileUser(u domain.User) publicUser {
	return publicUser{
		ID:     u.ID,
		Email:  u.Email,
		Mood:   string(u.MoodOrDefault()),
		Energy: string(u.EnergyOrDefault()),
	}
}

func (a *api) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "missing_data", "Missing data")
		return
	}

	u, err := a.authSvc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Registered",
		"user":    registeredUser(u),
	})
}

func (a *api) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "missing_data", "Missing data")
		return
	}

	ip := clientIP(r)
	email := domain.NormalizeEmail(req.Email)
	if !a.loginLimiter.Allow("ip:"+ip) || !a.loginLimiter.Allow("email:"+email) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	token, err := a.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"token": token})
}
