package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskpulse/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDomainError converts a service error into the wire taxonomy. Callers
// with a logger should prefer api.writeDomainError so unexpected failures
// get recorded.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", "invalid request")
	case errors.Is(err, domain.ErrEmailTaken):
		WriteError(w, http.StatusConflict, "email_taken", "Email already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
	case errors.Is(err, domain.ErrResetTokenInvalid):
		WriteError(w, http.StatusBadRequest, "invalid_token", "Invalid token")
	case errors.Is(err, domain.ErrResetTokenExpired):
		WriteError(w, http.StatusBadRequest, "token_expired", "Token expired")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Server error")
	}
}

// writeDomainError is WriteDomainError plus operator-side logging of
// unexpected failures. No internal detail reaches the client.
func (a *api) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrResetTokenInvalid),
		errors.Is(err, domain.ErrResetTokenExpired),
		errors.Is(err, domain.ErrNotFound):
	default:
		fields := []any{"method", r.Method, "path", r.URL.Path, "err", err}
		if rid, ok := GetRequestID(r.Context()); ok {
			fields = append(fields, "request_id", rid)
		}
		a.logger.Error("request failed", fields...)
	}
	WriteDomainError(w, err)
}
