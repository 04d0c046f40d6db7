package models

// LoginResponse is the success body of POST /api/auth/login.
type LoginResponse struct {
	// Token is the opaque bearer token for subsequent requests.
	Token string `json:"token"`

	// ExpiresAt is the session expiry in RFC 3339 / ISO 8601 form.
	ExpiresAt string `json:"expires_at"`

	// User is the denormalized account summary of the authenticated
	// account.
	User AccountSummary `json:"user"`
}

// RefreshResponse is the success body of POST /api/auth/refresh.
// The token value is unchanged; only the expiry moves.
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// ChangePasswordResponse is the success body of POST /api/auth/password.
type ChangePasswordResponse struct {
	// InvalidatedSessions is the number of other sessions revoked as
	// part of the password change. Zero when revocation was not
	// requested.
	InvalidatedSessions int64 `json:"invalidated_sessions"`
}

// ErrorResponse is the uniform failure body of every API endpoint.
// Code is a stable machine-readable identifier; the optional fields
// carry structured detail without leaking which input was wrong.
type ErrorResponse struct {
	Code string `json:"code"`

	// RetryAfter is the number of seconds until the rate-limit window
	// resets. Present only with code RATE_LIMIT_EXCEEDED.
	RetryAfter int64 `json:"retry_after,omitempty"`

	// Field names the offending input field for validation failures.
	Field string `json:"field,omitempty"`

	// Reason is the human-readable detail for validation failures.
	Reason string `json:"reason,omitempty"`
}
