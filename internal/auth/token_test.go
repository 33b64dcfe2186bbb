package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedIssuer(secret string, now time.Time) *TokenIssuer {
	i := NewTokenIssuer(secret)
	i.now = func() time.Time { return now }
	return i
}

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	i := fixedIssuer("dev", now)

	token, err := i.Issue("u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := i.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.True(t, claims.IssuedAt.Time.Equal(now))
	assert.Equal(t, TokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	token, err := fixedIssuer("dev", now).Issue("u1")
	require.NoError(t, err)

	_, err = fixedIssuer("other", now).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token, err := fixedIssuer("dev", issued).Issue("u1")
	require.NoError(t, err)

	_, err = fixedIssuer("dev", issued.Add(TokenTTL+time.Minute)).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("dev"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("dev").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("dev"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("dev").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
