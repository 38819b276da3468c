package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	assert.Error(t, err)
}

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("665f1c2e9b1d4a0012345678")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	got, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2e9b1d4a0012345678", got)
}

func TestValidate_Rejects(t *testing.T) {
	ts := newTestTokenService(t)
	good, err := ts.Generate("user-1")
	require.NoError(t, err)
	expired, err := ts.GenerateWithDuration("user-1", -time.Second)
	require.NoError(t, err)
	other, _ := NewTokenService("a-different-secret-32-chars-long")
	foreign, err := other.Generate("user-1")
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "user-1", Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "tampered", token: good[:len(good)-3] + "xxx"},
		{name: "wrong secret", token: foreign},
		{name: "alg none", token: unsigned},
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.Validate(tt.token)
			assert.Error(t, err)
		})
	}

	_, err = ts.Validate(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
