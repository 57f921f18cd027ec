package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_WithinBurst(t *testing.T) {
	limiter := New(1, 3)

	assert.True(t, limiter.Allow("key"))
	assert.True(t, limiter.Allow("key"))
	assert.True(t, limiter.Allow("key"))
	assert.False(t, limiter.Allow("key"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter := New(1, 1)

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))
}

func TestWait_RespectsContext(t *testing.T) {
	limiter := New(0.001, 1)
	require.True(t, limiter.Allow("key"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, "key")
	assert.Error(t, err)
}
