package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/internal/utils"
	"github.com/churchkit/church-ops/models"
)

// tokenInsertRetries bounds regeneration attempts on a token collision.
// With 256-bit tokens a single collision is already implausible; the loop
// exists to satisfy the uniqueness guarantee, not because collisions are
// expected.
const tokenInsertRetries = 3

// sessionService is the concrete implementation of [SessionService]. It
// owns the token index: sessions are created, validated, refreshed, and
// revoked only through this service, never through Account values.
type sessionService struct {
	// sessionRepository is the data-access layer for the sessions table.
	sessionRepository store.SessionRepository

	// accountRepository is consulted only at creation time to reject
	// sessions for unknown accounts.
	accountRepository store.AccountRepository

	// clock supplies the current time; injected for deterministic expiry
	// tests.
	clock Clock

	// logger is the structured logger used for audit output.
	logger *logger.Logger
}

// NewSessionService constructs a [SessionService] wired to the given
// repositories.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewSessionService(sessionRepository store.SessionRepository, accountRepository store.AccountRepository, clock Clock, logger *logger.Logger) SessionService {
	return &sessionService{
		sessionRepository: sessionRepository,
		accountRepository: accountRepository,
		clock:             clock,
		logger:            logger,
	}
}

// Create issues a new session for the account.
//
// The token is drawn from the OS CSPRNG (256 bits, base64url). On the
// store's unique-constraint violation a fresh token is generated and the
// insert retried. Duration is caller-supplied policy: 24h by default,
// 7 days for "remember me" logins.
//
// Returns store.ErrAccountNotFound if the account id is unknown, or
// ErrInvalidDataProvided for a non-positive duration.
func (s *sessionService) Create(ctx context.Context, accountID int64, duration time.Duration) (models.Session, error) {
	log := logger.FromContext(ctx)

	if duration <= 0 {
		return models.Session{}, ErrInvalidDataProvided
	}

	if _, err := s.accountRepository.FindByID(ctx, accountID); err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("session create for unknown account")
		return models.Session{}, err
	}

	now := s.clock.Now()

	for attempt := 0; attempt < tokenInsertRetries; attempt++ {
		token, err := utils.GenerateSessionToken()
		if err != nil {
			return models.Session{}, fmt.Errorf("%w: %w", ErrTokenGenerationFailed, err)
		}

		session := models.Session{
			Token:          token,
			AccountID:      accountID,
			CreatedAt:      now,
			ExpiresAt:      now.Add(duration),
			LastAccessedAt: now,
		}

		err = s.sessionRepository.Insert(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, store.ErrTokenCollision) {
			return models.Session{}, err
		}

		log.Warn().Int("attempt", attempt+1).Msg("session token collision, regenerating")
	}

	return models.Session{}, fmt.Errorf("%w: exhausted token collision retries", ErrTokenGenerationFailed)
}

// Validate looks up the token and applies the lifecycle rules.
//
// An expired session is deleted on sight and reported as
// ErrSessionExpired, so the same token yields ErrSessionNotFound on the
// next call. A session whose owning account is no longer active is also
// deleted and reported as ErrAccountInactive. A live session gets its
// last_accessed_at stamped and is returned together with the denormalized
// account summary.
func (s *sessionService) Validate(ctx context.Context, token string) (models.Session, models.AccountSummary, error) {
	log := logger.FromContext(ctx)

	found, err := s.sessionRepository.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.Session{}, models.AccountSummary{}, ErrSessionNotFound
		}
		return models.Session{}, models.AccountSummary{}, err
	}

	now := s.clock.Now()

	if found.Session.ExpiredAt(now) {
		// Best effort: a concurrent delete already achieved the goal.
		if err := s.sessionRepository.DeleteByToken(ctx, token); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			log.Err(err).Msg("failed to delete expired session")
		}
		return models.Session{}, models.AccountSummary{}, ErrSessionExpired
	}

	if !found.AccountActive {
		if err := s.sessionRepository.DeleteByToken(ctx, token); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
			log.Err(err).Msg("failed to delete session of inactive account")
		}
		log.Warn().Int64("account_id", found.Session.AccountID).Msg("session presented for inactive account")
		return models.Session{}, models.AccountSummary{}, ErrAccountInactive
	}

	if err := s.sessionRepository.Touch(ctx, token, now); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			// The row vanished between the read and the touch: a bulk
			// invalidation committed in between, and it wins.
			log.Warn().Int64("account_id", found.Session.AccountID).Msg("session revoked during validation")
			return models.Session{}, models.AccountSummary{}, ErrSessionNotFound
		}
		return models.Session{}, models.AccountSummary{}, err
	}
	found.Session.LastAccessedAt = now

	return found.Session, found.Account, nil
}

// Refresh extends the session expiry from now. The token value is kept;
// rotation was considered and rejected to keep refresh idempotent for
// clients (see DESIGN.md).
//
// Returns ErrSessionNotFound for an unknown token or
// ErrInvalidDataProvided for a non-positive duration.
func (s *sessionService) Refresh(ctx context.Context, token string, duration time.Duration) (models.Session, error) {
	if duration <= 0 {
		return models.Session{}, ErrInvalidDataProvided
	}

	now := s.clock.Now()
	session, err := s.sessionRepository.Extend(ctx, token, now.Add(duration), now)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}

	return session, nil
}

// Invalidate deletes a single session (logout).
//
// Returns ErrSessionNotFound for an unknown token.
func (s *sessionService) Invalidate(ctx context.Context, token string) error {
	err := s.sessionRepository.DeleteByToken(ctx, token)
	if errors.Is(err, store.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// InvalidateAllForAccount deletes every session owned by the account in
// one statement, so no token issued before the call can validate after it
// returns.
func (s *sessionService) InvalidateAllForAccount(ctx context.Context, accountID int64) (int64, error) {
	log := logger.FromContext(ctx)

	count, err := s.sessionRepository.DeleteByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	log.Info().Int64("account_id", accountID).Int64("invalidated", count).Msg("all sessions invalidated for account")
	return count, nil
}

// InvalidateOthersForAccount deletes every session owned by the account
// except keepToken.
func (s *sessionService) InvalidateOthersForAccount(ctx context.Context, accountID int64, keepToken string) (int64, error) {
	return s.sessionRepository.DeleteByAccountExcept(ctx, accountID, keepToken)
}

// SweepExpired deletes all sessions past their expiry. Run by the
// background worker so expired sessions do not accumulate even when never
// validated again.
func (s *sessionService) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.sessionRepository.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.logger.Debug().Int64("swept", count).Msg("expired sessions swept")
	}
	return count, nil
}
