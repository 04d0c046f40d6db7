package service

import (
	"context"
	"time"

	"github.com/churchkit/church-ops/models"
)

// Clock abstracts wall time so lockout windows and session expiry can be
// driven by a simulated clock in tests.
type Clock interface {
	Now() time.Time
}

// IdentifierKind selects which identifier format and uniqueness rule
// applies.
type IdentifierKind string

const (
	IdentifierUsername IdentifierKind = "username"
	IdentifierEmail    IdentifierKind = "email"
)

// CredentialService hashes and verifies passwords and enforces the
// password policy and identifier rules.
type CredentialService interface {
	// Hash computes a salted bcrypt hash of plaintext with the
	// system-wide cost factor. Fails with ErrInvalidDataProvided on an
	// empty plaintext.
	Hash(plaintext string) (string, error)

	// Verify compares plaintext against a stored hash using bcrypt's own
	// constant-time comparison. Never fails on a malformed hash; it
	// returns false instead.
	Verify(plaintext, hash string) bool

	// ValidatePasswordPolicy checks the password rules in a fixed order
	// (length, uppercase, lowercase, digit, optional special character)
	// and returns the first violation.
	ValidatePasswordPolicy(plaintext string) error

	// ValidateIdentifier checks the format of a username or email.
	ValidateIdentifier(kind IdentifierKind, value string) error

	// EnsureUnique checks the account store for an existing account with
	// the same normalized identifier, excluding excludeID (0 when
	// creating). Returns store.ErrUsernameTaken or store.ErrEmailTaken
	// on conflict.
	EnsureUnique(ctx context.Context, kind IdentifierKind, value string, excludeID int64) error
}

// RateLimiter bounds attempts per identifier per fixed window,
// independent of account state.
type RateLimiter interface {
	// Check starts a fresh window if none exists or the current one has
	// elapsed, then increments and allows while the count is under the
	// maximum. Once at the maximum it denies without incrementing
	// further. retryAfter is the time until the window resets, zero when
	// allowed.
	Check(identifier string) (allowed bool, remaining int, retryAfter time.Duration)

	// CheckAll checks several identifiers for one logical event and
	// denies if any of them is over its limit.
	CheckAll(identifiers ...string) (allowed bool, retryAfter time.Duration)

	// Reset clears one bucket (after a successful authentication).
	Reset(identifier string)

	// ResetAll clears every given bucket.
	ResetAll(identifiers ...string)

	// Cleanup removes buckets whose window elapsed more than grace ago
	// and reports how many were removed.
	Cleanup(grace time.Duration) int
}

// SessionService manages the opaque-token session lifecycle.
type SessionService interface {
	// Create issues a session for the account with the given lifetime.
	// Fails with store.ErrAccountNotFound for an unknown account. Token
	// collisions are retried with a fresh token.
	Create(ctx context.Context, accountID int64, duration time.Duration) (models.Session, error)

	// Validate looks up the token. Expired sessions are deleted and
	// reported as ErrSessionExpired; sessions of inactive accounts are
	// deleted and reported as ErrAccountInactive. On success the
	// session's last_accessed_at is updated and the owning account
	// summary is returned alongside.
	Validate(ctx context.Context, token string) (models.Session, models.AccountSummary, error)

	// Refresh extends expires_at from now. The token value is not
	// rotated.
	Refresh(ctx context.Context, token string, duration time.Duration) (models.Session, error)

	// Invalidate deletes a single session (logout).
	Invalidate(ctx context.Context, token string) error

	// InvalidateAllForAccount deletes every session owned by the
	// account and returns the count. Used on deactivation, password
	// change, and role change.
	InvalidateAllForAccount(ctx context.Context, accountID int64) (int64, error)

	// InvalidateOthersForAccount deletes every session owned by the
	// account except keepToken and returns the count.
	InvalidateOthersForAccount(ctx context.Context, accountID int64, keepToken string) (int64, error)

	// SweepExpired deletes all sessions past their expiry and returns
	// the count. Runs periodically, independent of request traffic.
	SweepExpired(ctx context.Context) (int64, error)
}

// AuthService orchestrates login, registration, and account lifecycle on
// top of the credential, rate-limit, and session components.
type AuthService interface {
	// Login runs the full authentication flow: rate-limit check on the
	// client address and the submitted username, credential
	// verification, failed-attempt accounting with automatic lockout,
	// and session issuance on success.
	Login(ctx context.Context, req models.LoginRequest, clientAddr string) (models.Session, models.AccountSummary, error)

	// Refresh extends the session behind token by the standard session
	// duration. The token value is not rotated.
	Refresh(ctx context.Context, token string) (models.Session, error)

	// Register creates a new account after format, policy, and
	// uniqueness checks.
	Register(ctx context.Context, req models.RegisterRequest) (models.Account, error)

	// ChangePassword re-verifies the current password, applies the
	// policy to the new one, stores the new hash, and optionally revokes
	// every other session of the account. Returns the number of revoked
	// sessions.
	ChangePassword(ctx context.Context, accountID int64, currentToken string, req models.ChangePasswordRequest) (int64, error)

	// RequestPasswordReset issues a short-lived signed reset token for
	// the account with the given username. Delivery is the caller's
	// concern.
	RequestPasswordReset(ctx context.Context, username string) (string, error)

	// CompletePasswordReset verifies a reset token, applies the policy
	// to the new password, stores the new hash, and revokes every
	// session of the account.
	CompletePasswordReset(ctx context.Context, token, newPassword string) error

	// Reactivate is the administrative Locked -> Active transition; it
	// also resets the failed-attempt counter.
	Reactivate(ctx context.Context, accountID int64) error

	// Deactivate disables the account and revokes all of its sessions.
	Deactivate(ctx context.Context, accountID int64) error

	// ChangeRole assigns a new role and revokes all of the account's
	// sessions so stale permission sets cannot linger.
	ChangeRole(ctx context.Context, accountID int64, role models.Role) error
}

// MemberService manages the congregation directory.
type MemberService interface {
	CreateMember(ctx context.Context, member models.Member) (models.Member, error)
	GetMember(ctx context.Context, memberID int64) (models.Member, error)
	ListMembers(ctx context.Context) ([]models.Member, error)
	UpdateMember(ctx context.Context, update models.MemberUpdate) error
	DeleteMember(ctx context.Context, memberID int64) error
}
