package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 3, Window: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("client-a"))
	}
	assert.False(t, l.Allow("client-a"))
}

func TestLimiter_ClientsIndependent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Limit: 1, Window: time.Minute})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"))
}

func TestLimiter_DisabledAllowsEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false, Limit: 1, Window: time.Minute})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("client-a"))
	}
}

func TestLimiter_TokensRefill(t *testing.T) {
	// 100ms window with limit 1: a token refills within a few wall-clock
	// milliseconds of exhaustion.
	l := NewLimiter(&Config{Enabled: true, Limit: 1, Window: 50 * time.Millisecond})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	time.Sleep(75 * time.Millisecond)
	assert.True(t, l.Allow("client-a"))
}
