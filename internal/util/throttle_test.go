package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottle(t *testing.T) {
	throttle := NewThrottle(5 * time.Second)
	now := time.Now()

	// First call fires.
	assert.True(t, throttle.allowAt(now))

	// Call again inside the window, shouldn't fire.
	assert.False(t, throttle.allowAt(now))

	// 4 seconds in, still closed.
	assert.False(t, throttle.allowAt(now.Add(4*time.Second)))

	// 6 seconds in, the gate reopens.
	assert.True(t, throttle.allowAt(now.Add(6*time.Second)))

	// And closes again right after.
	assert.False(t, throttle.allowAt(now.Add(6*time.Second)))
}

func TestThrottlePerInstance(t *testing.T) {
	a := NewThrottle(time.Minute)
	b := NewThrottle(time.Minute)
	now := time.Now()

	assert.True(t, a.allowAt(now))
	// A separate throttle keeps its own window.
	assert.True(t, b.allowAt(now))
	assert.False(t, a.allowAt(now))
}

func TestThrottleDifferentIntervals(t *testing.T) {
	short := NewThrottle(3 * time.Second)
	long := NewThrottle(5 * time.Second)
	now := time.Now()

	assert.True(t, short.allowAt(now))
	assert.True(t, long.allowAt(now))

	at4 := now.Add(4 * time.Second)
	assert.True(t, short.allowAt(at4))
	assert.False(t, long.allowAt(at4))

	at6 := now.Add(6 * time.Second)
	assert.False(t, short.allowAt(at6))
	assert.True(t, long.allowAt(at6))
}
