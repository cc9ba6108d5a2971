package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskpulse/internal/domain"
)

const (
	// SessionTTL is the fixed session token lifetime. There is no refresh
	// and no revocation list; a token is valid until it expires.
	SessionTTL = 7 * 24 * time.Hour

	// ResetTokenTTL bounds how long a password-reset link stays usable.
	ResetTokenTTL = 15 * time.Minute

	resetTokenBytes = 32
)

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenIssuer signs and verifies the stateless session tokens. The secret is
// process-wide and configuration-supplied.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret []byte) *TokenIssuer {
	secretCopy := make([]byte, len(secret))
	copy(secretCopy, secret)
	return &TokenIssuer{secret: secretCopy, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (i *TokenIssuer) WithNow(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// IssueSession returns a signed token carrying the user id plus the standard
// issued/expiry timestamps.
func (i *TokenIssuer) IssueSession(userID string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession returns the subject user id, or ErrUnauthorized for any
// malformed, mis-signed, or expired token. Callers must not distinguish the
// failure causes.
func (i *TokenIssuer) VerifySession(tokenString string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.UserID, nil
}

// NewResetToken draws a one-time reset token from the CSPRNG: 32 random
// bytes, hex-encoded, paired with its absolute expiry.
func NewResetToken(now time.Time) (string, time.Time, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("read reset token: %w", err)
	}
	return hex.EncodeToString(buf), now.Add(ResetTokenTTL), nil
}
