// Package ratelimit provides the token-bucket rate limiting the
// tunnel-port core uses to keep expected, high-frequency conditions
// (lookup misses, ECN drops, duplicate-match warnings) from flooding
// logs, per spec §7's suggested "1 message / 5 seconds for warnings,
// 60 / 60 seconds for debug" policy.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter bundles the two token buckets the core's logging call sites
// need: a low-rate bucket for warning-level conditions (duplicate
// registration, ECN drop, no-match) and a higher-rate bucket for
// debug-level chatter.
type Limiter struct {
	warn  *rate.Limiter
	debug *rate.Limiter
}

// New builds a Limiter from explicit intervals, so callers can tune
// the policy (e.g. in tests) without touching the default.
func New(warnEvery time.Duration, debugEvery time.Duration, debugBurst int) *Limiter {
	if debugBurst < 1 {
		debugBurst = 1
	}
	return &Limiter{
		warn:  rate.NewLimiter(rate.Every(warnEvery), 1),
		debug: rate.NewLimiter(rate.Every(debugEvery), debugBurst),
	}
}

// NewDefault builds a Limiter using spec §7's suggested policy: one
// warning every 5 seconds, up to 60 debug messages every 60 seconds.
func NewDefault() *Limiter {
	return New(5*time.Second, time.Second, 60)
}

// AllowWarn reports whether a warning-level message may be emitted
// right now, consuming a token from the warn bucket if so.
func (l *Limiter) AllowWarn() bool { return l.warn.Allow() }

// AllowDebug reports whether a debug-level message may be emitted
// right now, consuming a token from the debug bucket if so.
func (l *Limiter) AllowDebug() bool { return l.debug.Allow() }
