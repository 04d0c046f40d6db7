package store

import (
	"sync"

	"github.com/churchkit/church-ops/models"
)

// MemoryBucketStore is the in-memory implementation of [BucketStore]: a
// mutex-guarded map of rate-limit buckets keyed by identifier. It is the
// explicitly-owned replacement for the process-wide table the limiter
// would otherwise reach for; the limiter receives it at construction.
type MemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]models.RateLimitBucket
}

// NewMemoryBucketStore constructs an empty [MemoryBucketStore].
func NewMemoryBucketStore() *MemoryBucketStore {
	return &MemoryBucketStore{
		buckets: make(map[string]models.RateLimitBucket),
	}
}

// Mutate implements [BucketStore]. fn runs under the store mutex, so the
// limiter's read-or-create-then-increment sequence is a single critical
// section per call.
func (s *MemoryBucketStore) Mutate(identifier string, fn func(bucket *models.RateLimitBucket)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[identifier]
	if !ok {
		bucket = models.RateLimitBucket{Identifier: identifier}
	}

	fn(&bucket)
	s.buckets[identifier] = bucket
}

// Delete implements [BucketStore].
func (s *MemoryBucketStore) Delete(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.buckets, identifier)
}

// Sweep implements [BucketStore]. It removes every bucket the stale
// predicate matches and reports how many were removed.
func (s *MemoryBucketStore) Sweep(stale func(bucket models.RateLimitBucket) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for identifier, bucket := range s.buckets {
		if stale(bucket) {
			delete(s.buckets, identifier)
			removed++
		}
	}

	return removed
}

// Len implements [BucketStore].
func (s *MemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.buckets)
}
