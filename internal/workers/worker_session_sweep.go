package workers

import (
	"context"
	"time"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
)

// sessionSweeper periodically deletes sessions past their expiry so that
// abandoned sessions do not accumulate. Expiry enforcement itself does
// not depend on the sweeper; validation rejects expired sessions on
// sight.
type sessionSweeper struct {
	ctx      context.Context
	sessions service.SessionService
	interval time.Duration

	logger *logger.Logger
}

func newSessionSweeper(ctx context.Context, sessions service.SessionService, interval time.Duration, logger *logger.Logger) *sessionSweeper {
	return &sessionSweeper{
		ctx:      ctx,
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

func (s *sessionSweeper) Run() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info().Msg("session sweeper stopped")
				return
			case <-ticker.C:
				removed, err := s.sessions.SweepExpired(s.ctx)
				if err != nil {
					s.logger.Err(err).Msg("session sweep failed")
					continue
				}
				if removed > 0 {
					s.logger.Info().Int64("removed", removed).Msg("expired sessions swept")
				}
			}
		}
	}()
}
