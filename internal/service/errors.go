package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials deliberately covers both "unknown user" and
	// "wrong password" so responses cannot be used for username
	// enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned for authentication attempts against
	// an account deactivated by the failed-attempt threshold, regardless
	// of password correctness.
	ErrAccountLocked = errors.New("account is locked")

	// ErrAccountInactive is returned for authentication attempts against
	// an administratively deactivated account.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrPasswordResetRequired is returned on login when the account is
	// flagged for a forced password change.
	ErrPasswordResetRequired = errors.New("password reset required")

	ErrSessionExpired  = errors.New("session is expired")
	ErrSessionNotFound = errors.New("session not found")

	ErrResetTokenInvalid = errors.New("password reset token is expired or invalid")

	ErrTokenGenerationFailed = errors.New("token generation failed")
)

// Password policy violations. Rules are evaluated in a fixed order
// (length first, then uppercase, lowercase, digit, and optionally
// special character) and the first unmet rule is returned.
var (
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters")
	ErrPasswordNoUpper   = errors.New("password must contain an uppercase letter")
	ErrPasswordNoLower   = errors.New("password must contain a lowercase letter")
	ErrPasswordNoDigit   = errors.New("password must contain a digit")
	ErrPasswordNoSpecial = errors.New("password must contain a special character")
)

// Identifier format violations.
var (
	ErrInvalidUsernameFormat = errors.New("username must be 3-50 characters of letters, digits, underscore, or hyphen")
	ErrInvalidEmailFormat    = errors.New("email has invalid format")
	ErrInvalidRole           = errors.New("unknown role")
)

// ErrRateLimited is the errors.Is target for [RateLimitedError].
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitedError is returned when any identifier of a logical event is
// over its attempt limit. RetryAfter is the time until the earliest
// offending window resets.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// Is makes errors.Is(err, ErrRateLimited) match RateLimitedError values.
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
