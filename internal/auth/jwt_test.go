package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "familytask", time.Hour)

	userID := uuid.New()
	familyID := uuid.New()

	token, err := svc.GenerateToken(userID, familyID, "mika", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, familyID, claims.FamilyID)
	assert.Equal(t, "mika", claims.Username)
	assert.True(t, claims.IsParent)
	assert.Equal(t, "familytask", claims.Issuer)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "familytask", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), "mika", false)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrExpiredToken), "expected ErrExpiredToken, got %v", err)
}

func TestValidateWrongKey(t *testing.T) {
	svc := NewJWTService("secret-a", "familytask", time.Hour)
	other := NewJWTService("secret-b", "familytask", time.Hour)

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), "mika", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", "familytask", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
