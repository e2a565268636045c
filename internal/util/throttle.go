// Package util holds small helpers shared by the CLI commands.
package util

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttle gates a repeated call to at most once per interval. A burst-1
// rate limiter gives exactly the wanted semantics: the first call fires,
// calls inside the window do not, and the gate reopens once the interval
// has elapsed. Forced calls bypass the gate entirely and do not extend the
// window.
type Throttle struct {
	limiter *rate.Limiter
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Allow reports whether a gated call may fire now.
func (t *Throttle) Allow() bool {
	return t.allowAt(time.Now())
}

func (t *Throttle) allowAt(now time.Time) bool {
	return t.limiter.AllowN(now, 1)
}
