// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	adminID := uuid.New()
	token, err := GenerateAdminJWT(adminID, "admin@example.com", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAdminJWT(token)
	require.NoError(t, err)
	assert.Equal(t, adminID.String(), claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "shopfront", claims.Issuer)
}

func TestAdminJWTRejectsTamperedToken(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateAdminJWT(uuid.New(), "admin@example.com", 1)
	require.NoError(t, err)

	_, err = ValidateAdminJWT(token + "x")
	assert.Error(t, err)
}

func TestAdminJWTRejectsDifferentSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateAdminJWT(uuid.New(), "admin@example.com", 1)
	require.NoError(t, err)

	SetJWTSecret("second-secret")
	_, err = ValidateAdminJWT(token)
	assert.Error(t, err)
}

func TestGenerateCartID(t *testing.T) {
	a, err := GenerateCartID()
	require.NoError(t, err)
	b, err := GenerateCartID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "cart_")
}
