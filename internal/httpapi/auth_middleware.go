package httpapi

import (
	"context"
	"net/http"
	"strings"

	"taskpulse/internal/domain"
)

type authCtxKey int

const authUserIDKey authCtxKey = iota

// requireAuth gates a handler on a valid bearer session token. A missing
// header, a malformed header, and a bad token all produce the same 401; the
// caller learns nothing about which check failed.
func (a *api) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || scheme != "Bearer" || token == "" {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		userID, err := a.tokens.VerifySession(token)
		if err != nil {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), authUserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(authUserIDKey).(string)
	return id, ok
}
