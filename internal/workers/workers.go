package workers

import (
	"context"

	"github.com/churchkit/church-ops/internal/config"
	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the background worker set: the expired-session
// sweeper and one bucket sweeper per rate limiter. All workers stop when
// ctx is cancelled.
func NewWorkers(ctx context.Context, services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			newSessionSweeper(ctx, services.SessionService, cfg.Workers.SessionSweepInterval, logger),
			newBucketSweeper(ctx, "auth", services.AuthLimiter, cfg.RateLimit.SweepGrace, cfg.Workers.BucketSweepInterval, logger),
			newBucketSweeper(ctx, "api", services.APILimiter, cfg.RateLimit.SweepGrace, cfg.Workers.BucketSweepInterval, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
