package workers

import (
	"context"
	"time"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
)

// bucketSweeper periodically removes rate-limit buckets whose window
// elapsed more than the grace period ago, keeping the in-memory store
// bounded under churning identifiers.
type bucketSweeper struct {
	ctx      context.Context
	name     string
	limiter  service.RateLimiter
	grace    time.Duration
	interval time.Duration

	logger *logger.Logger
}

func newBucketSweeper(ctx context.Context, name string, limiter service.RateLimiter, grace, interval time.Duration, logger *logger.Logger) *bucketSweeper {
	return &bucketSweeper{
		ctx:      ctx,
		name:     name,
		limiter:  limiter,
		grace:    grace,
		interval: interval,
		logger:   logger,
	}
}

func (b *bucketSweeper) Run() {
	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-b.ctx.Done():
				b.logger.Info().Str("limiter", b.name).Msg("bucket sweeper stopped")
				return
			case <-ticker.C:
				removed := b.limiter.Cleanup(b.grace)
				if removed > 0 {
					b.logger.Info().Str("limiter", b.name).Int("removed", removed).Msg("stale rate-limit buckets swept")
				}
			}
		}
	}()
}
