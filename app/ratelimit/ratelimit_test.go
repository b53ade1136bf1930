package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowUntilMaxFailures(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)

	assert.True(t, l.Allow("pin:u1"))
	l.Fail("pin:u1")
	l.Fail("pin:u1")
	assert.True(t, l.Allow("pin:u1"), "two failures out of three should still allow")

	l.Fail("pin:u1")
	assert.False(t, l.Allow("pin:u1"), "third failure should lock the key")
	assert.True(t, l.Allow("pin:u2"), "other keys are unaffected")
}

func TestResetClearsLockout(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)

	l.Fail("login:12345678-9")
	assert.False(t, l.Allow("login:12345678-9"))

	l.Reset("login:12345678-9")
	assert.True(t, l.Allow("login:12345678-9"))
}

func TestWindowExpiry(t *testing.T) {
	current := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, 15*time.Minute)
	l.now = func() time.Time { return current }

	l.Fail("pin:u1")
	l.Fail("pin:u1")
	assert.False(t, l.Allow("pin:u1"))

	current = current.Add(15 * time.Minute)
	assert.True(t, l.Allow("pin:u1"), "lockout should expire with the window")

	// A failure after expiry starts a fresh window, not a continuation.
	l.Fail("pin:u1")
	assert.True(t, l.Allow("pin:u1"))
}
