package models

// LoginRequest is the JSON body of POST /api/auth/login.
type LoginRequest struct {
	// Username is the account login identifier. Matched
	// case-insensitively.
	Username string `json:"username"`

	// Password is the plaintext password. Never persisted or logged.
	Password string `json:"password"`

	// RememberMe requests the extended session duration (7 days instead
	// of the default 24 hours).
	RememberMe bool `json:"remember_me,omitempty"`
}

// RegisterRequest is the JSON body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Role is optional; empty defaults to the member role.
	Role Role `json:"role,omitempty"`
}

// ChangePasswordRequest is the JSON body of POST /api/auth/password.
type ChangePasswordRequest struct {
	// CurrentPassword must re-verify against the stored hash before the
	// change is applied.
	CurrentPassword string `json:"current_password"`

	NewPassword string `json:"new_password"`

	// InvalidateOtherSessions requests bulk revocation of every other
	// session owned by the account after the password change.
	InvalidateOtherSessions bool `json:"invalidate_other_sessions,omitempty"`
}
