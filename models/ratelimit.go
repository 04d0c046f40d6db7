package models

import "time"

// RateLimitBucket is a fixed-window attempt counter for one identifier.
// Identifiers are composite strings such as "ip:1.2.3.4" or "user:alice"
// so that a single logical event can be limited along several axes
// independently of account state.
//
// Buckets are created lazily on first check, reset when the window
// elapses, and removed by the periodic sweep once the window has been
// stale beyond the grace period.
type RateLimitBucket struct {
	// Identifier is the composite bucket key.
	Identifier string

	// Count is the number of attempts recorded in the current window.
	Count int

	// WindowStart marks the beginning of the current window.
	WindowStart time.Time
}

// Stale reports whether the bucket's window elapsed before the given
// instant, i.e. the next check starts a fresh window.
func (b RateLimitBucket) Stale(now time.Time, window time.Duration) bool {
	return !now.Before(b.WindowStart.Add(window))
}
