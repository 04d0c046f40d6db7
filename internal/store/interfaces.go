package store

import (
	"context"
	"time"

	"github.com/churchkit/church-ops/models"
)

// AccountRepository is the persistence boundary of the credential manager
// and the lockout state machine. All identifier comparisons are
// case-insensitive; values are normalized to lower case before they are
// persisted.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindByUsername(ctx context.Context, username string) (models.Account, error)
	FindByID(ctx context.Context, accountID int64) (models.Account, error)

	// UsernameExists and EmailExists probe case-insensitive uniqueness,
	// excluding excludeID (0 when creating a new account).
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)

	// RecordFailedAttempt atomically increments the failure counter and
	// deactivates the account once the counter reaches threshold. It
	// returns the new counter value and whether the account is still
	// active. Already-inactive accounts are not touched and yield
	// [ErrAccountInactive].
	RecordFailedAttempt(ctx context.Context, accountID int64, threshold int) (attempts int, active bool, err error)

	// RecordSuccessfulLogin resets the failure counter and stamps
	// last_login.
	RecordSuccessfulLogin(ctx context.Context, accountID int64) error

	// Reactivate is the administrative Locked -> Active transition. It
	// re-activates the account and resets the failure counter.
	Reactivate(ctx context.Context, accountID int64) error

	Deactivate(ctx context.Context, accountID int64) error
	UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error
	UpdateRole(ctx context.Context, accountID int64, role models.Role) error
}

// SessionWithAccount pairs a session row with the denormalized summary of
// its owning account, fetched in one query.
type SessionWithAccount struct {
	Session models.Session
	Account models.AccountSummary

	// AccountActive reports whether the owning account may still
	// authenticate. Sessions of inactive accounts are deleted on sight.
	AccountActive bool
}

// SessionRepository is the persistence boundary of the session manager.
// Sessions are indexed by token only; they are never reachable through an
// Account value.
type SessionRepository interface {
	// Insert persists a new session. A token collision yields
	// [ErrTokenCollision] so the caller can regenerate and retry.
	Insert(ctx context.Context, session models.Session) error

	// FindByToken returns the session and its owner summary, or
	// [ErrSessionNotFound].
	FindByToken(ctx context.Context, token string) (SessionWithAccount, error)

	// Touch updates last_accessed_at, or returns [ErrSessionNotFound]
	// when the row is gone.
	Touch(ctx context.Context, token string, at time.Time) error

	// Extend moves expires_at and last_accessed_at forward, returning
	// the refreshed session.
	Extend(ctx context.Context, token string, expiresAt, at time.Time) (models.Session, error)

	// DeleteByToken removes one session (logout). Returns
	// [ErrSessionNotFound] when the token does not exist.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteByAccount removes every session owned by the account and
	// returns the number removed.
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)

	// DeleteByAccountExcept removes every session owned by the account
	// except the one identified by keepToken, and returns the number
	// removed. Used on password change when the caller wants to stay
	// logged in on the current session only.
	DeleteByAccountExcept(ctx context.Context, accountID int64, keepToken string) (int64, error)

	// DeleteExpired removes all sessions whose expiry is at or before
	// now and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// MemberRepository is the persistence boundary of the congregation
// directory.
type MemberRepository interface {
	CreateMember(ctx context.Context, member models.Member) (models.Member, error)
	FindMemberByID(ctx context.Context, memberID int64) (models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	UpdateMember(ctx context.Context, update models.MemberUpdate) error
	DeleteMember(ctx context.Context, memberID int64) error
}

// BucketStore is the explicitly-owned storage object behind the rate
// limiter. Implementations must make Mutate atomic per call so the
// limiter's read-or-create-then-increment sequence cannot interleave.
type BucketStore interface {
	// Mutate runs fn under the store's lock. fn receives the current
	// bucket (zero-valued with Identifier set when absent) and mutates
	// it in place; the result is stored back.
	Mutate(identifier string, fn func(bucket *models.RateLimitBucket))

	// Delete removes one bucket.
	Delete(identifier string)

	// Sweep removes every bucket for which stale returns true and
	// reports how many were removed.
	Sweep(stale func(bucket models.RateLimitBucket) bool) int

	// Len reports the number of live buckets.
	Len() int
}
