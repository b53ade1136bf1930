// Package ratelimit provides the attempt-limiter capability used to
// throttle credential guesses (login passwords, guardian PINs). It is an
// injected dependency rather than ambient shared state so handlers can be
// tested with a permissive or pre-exhausted limiter.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks failed attempts per key within a sliding window.
type Limiter interface {
	// Allow reports whether the key may attempt again.
	Allow(key string) bool
	// Fail records a failed attempt for the key.
	Fail(key string)
	// Reset clears the key's attempt count, typically after a success.
	Reset(key string)
}

type entry struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter is an in-process Limiter: max failed attempts per key per
// window. Suitable for a single-instance deployment, which is how the
// intranet runs.
type MemoryLimiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	attempts map[string]*entry
	now      func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:      max,
		window:   window,
		attempts: make(map[string]*entry),
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.attempts[key]
	if !ok {
		return true
	}
	if l.now().Sub(e.windowStart) >= l.window {
		delete(l.attempts, key)
		return true
	}
	return e.count < l.max
}

func (l *MemoryLimiter) Fail(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.attempts[key]
	if !ok || l.now().Sub(e.windowStart) >= l.window {
		l.attempts[key] = &entry{count: 1, windowStart: l.now()}
		return
	}
	e.count++
}

func (l *MemoryLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}
