package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)

	token, err := ti.GenerateToken("alice")
	require.NoError(t, err)

	username, err := ti.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	ti.now = func() time.Time { return issued }

	token, err := ti.GenerateToken("alice")
	require.NoError(t, err)

	ti.now = time.Now
	_, err = ti.ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenIssuer("other", time.Minute).GenerateToken("alice")
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Minute).ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
