package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	userID := uuid.New()
	token, err := Sign("secret", userID, time.Hour)
	require.NoError(t, err)

	claims, err := Parse("secret", token)
	require.NoError(t, err)

	got, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, userID, got)

	_, err = claims.TokenID()
	require.NoError(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Sign("secret", uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = Parse("other", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	claims := Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ID:        uuid.NewString(),
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = Parse("secret", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	userID := uuid.New()
	a, err := Sign("secret", userID, time.Hour)
	require.NoError(t, err)
	b, err := Sign("secret", userID, time.Hour)
	require.NoError(t, err)

	ca, err := Parse("secret", a)
	require.NoError(t, err)
	cb, err := Parse("secret", b)
	require.NoError(t, err)
	require.NotEqual(t, ca.ID, cb.ID)
}
