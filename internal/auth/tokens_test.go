package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/domain"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))

	token, err := issuer.IssueSession("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := issuer.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifySession_Invalid(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"))
	token, err := issuer.IssueSession("user-1")
	require.NoError(t, err)

	cases := []struct {
		name   string
		verify func() (string, error)
	}{
		{"garbage", func() (string, error) {
			return issuer.VerifySession("not.a.jwt")
		}},
		{"empty", func() (string, error) {
			return issuer.VerifySession("")
		}},
		{"wrong secret", func() (string, error) {
			return NewTokenIssuer([]byte("other-secret")).VerifySession(token)
		}},
		{"tampered", func() (string, error) {
			return issuer.VerifySession(token[:len(token)-2] + "xx")
		}},
		{"expired", func() (string, error) {
			past := NewTokenIssuer([]byte("test-secret")).WithNow(func() time.Time {
				return time.Now().Add(-SessionTTL - time.Minute)
			})
			old, err := past.IssueSession("user-1")
			require.NoError(t, err)
			return issuer.VerifySession(old)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.verify()
			// Failure causes must be indistinguishable to callers.
			require.True(t, errors.Is(err, domain.ErrUnauthorized), "got %v", err)
		})
	}
}

func TestNewResetToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	token, expiry, err := NewResetToken(now)
	require.NoError(t, err)

	assert.Len(t, token, 64)
	for _, r := range token {
		assert.Contains(t, "0123456789abcdef", string(r))
	}
	assert.Equal(t, now.Add(15*time.Minute), expiry)

	other, _, err := NewResetToken(now)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
