package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrUsernameTaken is returned when creating or updating an account
	// would collide with an existing username. Usernames are compared
	// case-insensitively.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when creating or updating an account
	// would collide with an existing email. Emails are compared
	// case-insensitively.
	ErrEmailTaken = errors.New("email already taken")

	// ErrAccountNotFound is returned when a query expected to match an
	// account produces an empty result set.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive is returned by counter updates that require the
	// account to be active (e.g. recording a failed attempt against an
	// already-locked account is a no-op, surfaced as this error).
	ErrAccountInactive = errors.New("account is not active")

	// ErrTokenCollision is returned when inserting a session collides
	// with an existing token. The caller regenerates the token and
	// retries.
	ErrTokenCollision = errors.New("session token already exists")

	// ErrSessionNotFound is returned when a session lookup, refresh, or
	// delete targets a token that does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrMemberNotFound is returned when a directory query targets a
	// member record that does not exist.
	ErrMemberNotFound = errors.New("member not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails (e.g. no fields to update).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
