package models

import "time"

// Account represents a durable identity and credential record used for
// authentication and authorization. It is the root entity of the auth
// subsystem: sessions reference an account by id only and are never
// reachable through the Account value itself.
// Sensitive fields must never be exposed outside trusted boundaries.
type Account struct {
	// AccountID is the internal unique identifier of the account.
	AccountID int64 `json:"id"`

	// Username is the unique login identifier. Stored lower-cased;
	// uniqueness is case-insensitive.
	Username string `json:"username"`

	// Email is the unique contact address. Stored lower-cased;
	// uniqueness is case-insensitive.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the account password.
	// Never serialized outward and never logged.
	PasswordHash string `json:"-"`

	// Role determines the permission set granted to the account.
	Role Role `json:"role"`

	// Active reports whether the account may authenticate. Flips to
	// false automatically when FailedAttempts reaches the lockout
	// threshold; only an administrative reactivation flips it back.
	Active bool `json:"active"`

	// FailedAttempts counts consecutive failed logins. Reset to zero on
	// any successful authentication and on reactivation. Stops counting
	// once the account is locked.
	FailedAttempts int `json:"-"`

	// LastLogin is the timestamp of the most recent successful login.
	// Nil if the account has never logged in.
	LastLogin *time.Time `json:"last_login,omitempty"`

	// PasswordResetRequired forces a password change on next login.
	PasswordResetRequired bool `json:"password_reset_required"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// AccountSummary is the denormalized subset of account fields returned
// alongside a validated session so callers do not need a second store
// round-trip.
type AccountSummary struct {
	AccountID int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Summary extracts the denormalized view of the account.
func (a Account) Summary() AccountSummary {
	return AccountSummary{
		AccountID: a.AccountID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
	}
}
