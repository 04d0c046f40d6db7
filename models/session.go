package models

import "time"

// Session is a time-bounded, revocable proof of authentication bound to
// exactly one account. The token is an opaque random string with no
// structure a client can parse; everything the server knows about the
// session lives in the session store, keyed by the token.
//
// Session holds the owning account id by value only. It must never carry
// a pointer to a live Account: sessions are looked up through the session
// store's own index and invalidated in bulk when the account changes.
type Session struct {
	// Token is the unique, unguessable session identifier issued at
	// login. Fixed length, at least 128 bits of entropy.
	Token string `json:"token"`

	// AccountID references the owning account. A plain value, not an
	// ownership pointer.
	AccountID int64 `json:"account_id"`

	// CreatedAt is the issuance timestamp.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the expiry deadline. Strictly greater than CreatedAt
	// at creation; may be extended by refresh.
	ExpiresAt time.Time `json:"expires_at"`

	// LastAccessedAt is updated by every successful validation.
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// ExpiredAt reports whether the session is expired at the given instant.
func (s Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
