package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-allocator/internal/models"
	appErrors "github.com/noah-isme/campus-allocator/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "campus"})

	token, expiresAt, err := svc.Issue("s1", models.RoleStudent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.False(t, claims.IsAdmin())
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})

	other := NewTokenService(TokenConfig{Secret: "other"})
	foreign, _, err := other.Issue("s1", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(err))

	expired := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.Issue("s1", models.RoleStudent)
	require.NoError(t, err)
	_, err = svc.ValidateToken(stale)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(err))

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: "s1", Role: "GUEST"})
	signed, err := noRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(err))

	_, _, err = svc.Issue("", models.RoleStudent)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
	_, _, err = svc.Issue("s1", "GUEST")
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
}
