package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomTokenRoundTrip(t *testing.T) {
	token, err := GenerateRoomToken("User", "appointment-room-abc123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := ExtractIdentityFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "User", identity)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateRoomToken("User", "room", -time.Minute)
	require.NoError(t, err)

	_, err = ExtractIdentityFromToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ExtractIdentityFromToken("not.a.token")
	assert.Error(t, err)
}
