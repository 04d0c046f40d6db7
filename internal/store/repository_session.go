package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/models"
	"github.com/jackc/pgerrcode"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. The "sessions" table is the session manager's own
// token index; nothing else in the system reads it.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// Insert persists a new session row.
//
// Error handling:
//   - unique_violation (23505) on the token key → [ErrTokenCollision],
//     which the session manager treats as "regenerate and retry".
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *sessionRepository) Insert(ctx context.Context, session models.Session) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, createSession,
		session.Token, session.AccountID, session.CreatedAt, session.ExpiresAt, session.LastAccessedAt)
	if err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrTokenCollision
		default:
			log.Err(err).Str("func", "*sessionRepository.Insert").Msg("error: session insert failed")
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return nil
}

// FindByToken retrieves the session row joined with its owning account so
// callers get the denormalized summary in one round-trip.
//
// Returns [ErrSessionNotFound] when the token does not exist.
func (r *sessionRepository) FindByToken(ctx context.Context, token string) (SessionWithAccount, error) {
	log := logger.FromContext(ctx)

	var found SessionWithAccount
	row := r.db.QueryRowContext(ctx, findSessionWithAccount, token)
	if err := row.Scan(
		&found.Session.Token, &found.Session.AccountID, &found.Session.CreatedAt,
		&found.Session.ExpiresAt, &found.Session.LastAccessedAt,
		&found.Account.Username, &found.Account.Email, &found.Account.Role,
		&found.AccountActive,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionWithAccount{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.FindByToken").Msg("error: scanning session row")
		return SessionWithAccount{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	found.Account.AccountID = found.Session.AccountID

	return found, nil
}

// Touch stamps last_accessed_at for a validated session.
//
// Returns [ErrSessionNotFound] on zero rows updated: the session was
// revoked between the read and the touch, and the revocation wins. The
// caller must not hand out a session whose touch missed.
func (r *sessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, touchSession, token, at)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Touch").Msg("error: session touch failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Extend moves the expiry forward and stamps last_accessed_at, returning
// the refreshed session.
//
// Returns [ErrSessionNotFound] when the token does not exist.
func (r *sessionRepository) Extend(ctx context.Context, token string, expiresAt, at time.Time) (models.Session, error) {
	log := logger.FromContext(ctx)

	session := models.Session{
		Token:          token,
		ExpiresAt:      expiresAt,
		LastAccessedAt: at,
	}

	row := r.db.QueryRowContext(ctx, extendSession, token, expiresAt, at)
	if err := row.Scan(&session.AccountID, &session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*sessionRepository.Extend").Msg("error: session extend failed")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return session, nil
}

// DeleteByToken removes a single session (logout, expiry on read, or
// inactive-owner cleanup).
//
// Returns [ErrSessionNotFound] when the token does not exist.
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteSessionByToken, token)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteByToken").Msg("error: session delete failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteByAccount removes every session owned by the account in one
// statement; a validate running concurrently either sees the row before
// the DELETE commits or not at all.
func (r *sessionRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	return r.deleteMany(ctx, "DeleteByAccount", deleteSessionsByAccount, accountID)
}

// DeleteByAccountExcept removes every session owned by the account except
// keepToken.
func (r *sessionRepository) DeleteByAccountExcept(ctx context.Context, accountID int64, keepToken string) (int64, error) {
	return r.deleteMany(ctx, "DeleteByAccountExcept", deleteSessionsByAccountExcept, accountID, keepToken)
}

// DeleteExpired removes all sessions whose expiry is at or before now.
// Run periodically by the sweep worker.
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteMany(ctx, "DeleteExpired", deleteExpiredSessions, now)
}

func (r *sessionRepository) deleteMany(ctx context.Context, funcName, query string, args ...any) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository."+funcName).Msg("error: bulk session delete failed")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return affected, nil
}
