package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/models"
	"github.com/jackc/pgerrcode"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It handles account creation, lookup, and the
// failed-attempt counter against the "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new account record and returns the fully
// populated [models.Account] with server-assigned fields (AccountID,
// CreatedAt). Username and email are lower-cased before the INSERT so
// uniqueness is case-insensitive at rest.
//
// Error handling:
//   - unique_violation (23505) on the username index → [ErrUsernameTaken].
//   - unique_violation (23505) on the email index → [ErrEmailTaken].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAccount,
		strings.ToLower(account.Username),
		strings.ToLower(account.Email),
		account.PasswordHash,
		account.Role,
	)

	var created models.Account
	if err := row.Scan(
		&created.AccountID, &created.Username, &created.Email, &created.PasswordHash,
		&created.Role, &created.Active, &created.FailedAttempts, &created.LastLogin,
		&created.PasswordResetRequired, &created.CreatedAt,
	); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: account insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			if strings.Contains(postgresConstraint(err), "email") {
				return models.Account{}, ErrEmailTaken
			}
			return models.Account{}, ErrUsernameTaken
		default:
			return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return created, nil
}

// FindByUsername retrieves the account whose username matches the given
// value, compared case-insensitively.
//
// Returns [ErrAccountNotFound] when no row matches.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (models.Account, error) {
	return r.findOne(ctx, findAccountByUsername, username)
}

// FindByID retrieves the account with the given id.
//
// Returns [ErrAccountNotFound] when no row matches.
func (r *accountRepository) FindByID(ctx context.Context, accountID int64) (models.Account, error) {
	return r.findOne(ctx, findAccountByID, accountID)
}

func (r *accountRepository) findOne(ctx context.Context, query string, arg any) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account
	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Scan(
		&account.AccountID, &account.Username, &account.Email, &account.PasswordHash,
		&account.Role, &account.Active, &account.FailedAttempts, &account.LastLogin,
		&account.PasswordResetRequired, &account.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.findOne").Msg("error: scanning account row")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return account, nil
}

// UsernameExists implements the case-insensitive uniqueness probe for
// usernames.
func (r *accountRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, usernameExists, username, excludeID)
}

// EmailExists implements the case-insensitive uniqueness probe for
// emails.
func (r *accountRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, emailExists, email, excludeID)
}

func (r *accountRepository) exists(ctx context.Context, query, value string, excludeID int64) (bool, error) {
	log := logger.FromContext(ctx)

	var exists bool
	row := r.db.QueryRowContext(ctx, query, value, excludeID)
	if err := row.Scan(&exists); err != nil {
		log.Err(err).Str("func", "*accountRepository.exists").Msg("error: uniqueness probe failed")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return exists, nil
}

// RecordFailedAttempt increments the failure counter and deactivates the
// account at the threshold in a single UPDATE, so two concurrent failed
// logins cannot both observe the pre-threshold counter and skip the
// lockout.
//
// The UPDATE is guarded by active = TRUE: attempts against an already
// locked account do not advance the counter. That case surfaces as
// [ErrAccountInactive] (zero rows updated while the account row exists),
// and a missing account as [ErrAccountNotFound].
func (r *accountRepository) RecordFailedAttempt(ctx context.Context, accountID int64, threshold int) (int, bool, error) {
	log := logger.FromContext(ctx)

	var attempts int
	var active bool
	row := r.db.QueryRowContext(ctx, recordFailedAttempt, accountID, threshold)
	if err := row.Scan(&attempts, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish "locked" from "gone".
			if _, findErr := r.FindByID(ctx, accountID); findErr == nil {
				return 0, false, ErrAccountInactive
			}
			return 0, false, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.RecordFailedAttempt").Msg("error: failed-attempt update")
		return 0, false, fmt.Errorf("unexpected DB error: %w", err)
	}

	return attempts, active, nil
}

// RecordSuccessfulLogin resets the failure counter to zero and stamps
// last_login. Only active accounts qualify; a zero-row update means the
// account was deactivated concurrently and yields [ErrAccountInactive].
func (r *accountRepository) RecordSuccessfulLogin(ctx context.Context, accountID int64) error {
	return r.execOne(ctx, "RecordSuccessfulLogin", recordSuccessfulLogin, ErrAccountInactive, accountID)
}

// Reactivate flips a deactivated account back to active and resets the
// failure counter. This is the only Locked -> Active transition.
func (r *accountRepository) Reactivate(ctx context.Context, accountID int64) error {
	return r.execOne(ctx, "Reactivate", reactivateAccount, ErrAccountNotFound, accountID)
}

// Deactivate marks the account inactive. Session cleanup is the session
// manager's responsibility.
func (r *accountRepository) Deactivate(ctx context.Context, accountID int64) error {
	return r.execOne(ctx, "Deactivate", deactivateAccount, ErrAccountNotFound, accountID)
}

// UpdatePassword replaces the stored hash and clears the
// password_reset_required flag.
func (r *accountRepository) UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error {
	return r.execOne(ctx, "UpdatePassword", updateAccountPassword, ErrAccountNotFound, accountID, passwordHash)
}

// UpdateRole assigns a new role to the account.
func (r *accountRepository) UpdateRole(ctx context.Context, accountID int64, role models.Role) error {
	return r.execOne(ctx, "UpdateRole", updateAccountRole, ErrAccountNotFound, accountID, role)
}

// execOne runs a single-row UPDATE and maps a zero-row result to the
// given sentinel.
func (r *accountRepository) execOne(ctx context.Context, funcName, query string, missing error, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository."+funcName).Msg("error: account update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return missing
	}

	return nil
}
