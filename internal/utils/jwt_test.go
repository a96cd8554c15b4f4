package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(7, "importer", "admin", "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "importer", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	token, err := GenerateToken(7, "importer", "admin", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateToken(7, "importer", "admin", "test-secret", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired, "test-secret")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token", "test-secret")
	assert.Error(t, err)
}
