package service

import (
	"time"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/models"
)

// rateLimiter is the concrete implementation of [RateLimiter]: fixed
// windows with reset, counted per identifier in an injected
// [store.BucketStore]. Account state plays no part here; the limiter only
// sees identifier strings like "ip:1.2.3.4" or "user:alice".
type rateLimiter struct {
	// buckets is the explicitly-owned bucket store. Its Mutate method is
	// the atomicity boundary for the read-or-create-then-increment
	// sequence.
	buckets store.BucketStore

	// window is the duration of one counting window.
	window time.Duration

	// max is the number of attempts allowed per identifier per window.
	max int

	// clock supplies the current time; injected for deterministic tests.
	clock Clock

	// logger is the structured logger used for audit output on denials.
	logger *logger.Logger
}

// NewRateLimiter constructs a [RateLimiter] over the given bucket store
// with one window duration and attempt maximum. Construct one limiter per
// request class (auth, general API).
func NewRateLimiter(buckets store.BucketStore, window time.Duration, max int, clock Clock, logger *logger.Logger) RateLimiter {
	return &rateLimiter{
		buckets: buckets,
		window:  window,
		max:     max,
		clock:   clock,
		logger:  logger,
	}
}

// Check implements [RateLimiter]. The whole decision runs inside a single
// store Mutate call, so two concurrent checks for the same identifier
// cannot both observe the pre-increment count.
func (r *rateLimiter) Check(identifier string) (bool, int, time.Duration) {
	now := r.clock.Now()

	var allowed bool
	var remaining int
	var retryAfter time.Duration

	r.buckets.Mutate(identifier, func(bucket *models.RateLimitBucket) {
		// A zero or elapsed window starts fresh before evaluating.
		if bucket.WindowStart.IsZero() || bucket.Stale(now, r.window) {
			bucket.WindowStart = now
			bucket.Count = 0
		}

		if bucket.Count < r.max {
			bucket.Count++
			allowed = true
			remaining = r.max - bucket.Count
			return
		}

		// At the ceiling: deny without incrementing further.
		retryAfter = bucket.WindowStart.Add(r.window).Sub(now)
	})

	if !allowed {
		r.logger.Warn().
			Str("identifier", identifier).
			Dur("retry_after", retryAfter).
			Msg("rate limit exceeded")
	}

	return allowed, remaining, retryAfter
}

// CheckAll implements [RateLimiter]. Every identifier is checked; the
// event is denied if any of them is over its limit, and the longest
// retry-after among the denials is reported.
func (r *rateLimiter) CheckAll(identifiers ...string) (bool, time.Duration) {
	allowed := true
	var retryAfter time.Duration

	for _, identifier := range identifiers {
		ok, _, wait := r.Check(identifier)
		if !ok {
			allowed = false
			if wait > retryAfter {
				retryAfter = wait
			}
		}
	}

	return allowed, retryAfter
}

// Reset implements [RateLimiter].
func (r *rateLimiter) Reset(identifier string) {
	r.buckets.Delete(identifier)
}

// ResetAll implements [RateLimiter].
func (r *rateLimiter) ResetAll(identifiers ...string) {
	for _, identifier := range identifiers {
		r.buckets.Delete(identifier)
	}
}

// Cleanup implements [RateLimiter]. It removes buckets whose window
// elapsed more than grace ago so idle identifiers do not accumulate.
func (r *rateLimiter) Cleanup(grace time.Duration) int {
	now := r.clock.Now()

	removed := r.buckets.Sweep(func(bucket models.RateLimitBucket) bool {
		return bucket.Stale(now, r.window+grace)
	})

	if removed > 0 {
		r.logger.Debug().Int("removed", removed).Msg("rate limit buckets swept")
	}

	return removed
}
