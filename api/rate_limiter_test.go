package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))

	// another client has its own bucket
	require.True(t, rl.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(5 * time.Minute)
	rl.Allow("10.0.0.2")
	require.Equal(t, 2, rl.Size())

	now = now.Add(6 * time.Minute)
	require.Equal(t, 1, rl.Cleanup(10*time.Minute))
	require.Equal(t, 1, rl.Size())

	// a forgotten client starts with a full bucket
	require.True(t, rl.Allow("10.0.0.1"))
}
