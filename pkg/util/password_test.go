package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("ClientPass123!")
	require.NoError(t, err)

	assert.True(t, CheckPassword("ClientPass123!", hash))
	assert.False(t, CheckPassword("ClientPass123", hash))
}

func TestCheckPassword_AcceptsRosterDigest(t *testing.T) {
	const digest = "$2b$10$9zGVl.MIy3RTTevSQc3yxOtpT6bADiRC2Nga1ljLqhyVMpiinWcO2"
	assert.True(t, CheckPassword("ClientPass123!", digest))
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", "not-a-hash"))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
