package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/churchkit/church-ops/internal/config"
	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/store"
)

const (
	passwordMinLength = 8
	usernameMinLength = 3
	usernameMaxLength = 50
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// credentialService is the concrete implementation of
// [CredentialService]. It hashes passwords with bcrypt at a fixed
// system-wide cost, enforces the password policy, and checks identifier
// format and case-insensitive uniqueness against the account store.
type credentialService struct {
	// accountRepository is the data-access layer used for uniqueness
	// probes.
	accountRepository store.AccountRepository

	// bcryptCost is the bcrypt cost factor applied to every hash.
	bcryptCost int

	// requireSpecialChar enables the optional special-character policy
	// rule.
	requireSpecialChar bool

	// logger is the structured logger used for diagnostic output.
	logger *logger.Logger
}

// NewCredentialService constructs a [CredentialService] wired to the
// given account repository and populated with policy parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewCredentialService(accountRepository store.AccountRepository, cfg config.Auth, logger *logger.Logger) CredentialService {
	return &credentialService{
		accountRepository:  accountRepository,
		bcryptCost:         cfg.BcryptCost,
		requireSpecialChar: cfg.RequireSpecialChar,
		logger:             logger,
	}
}

// Hash computes a salted bcrypt hash of plaintext.
//
// Returns ErrInvalidDataProvided for an empty plaintext, or a wrapped
// bcrypt error (e.g. the 72-byte input limit) otherwise.
func (c *credentialService) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("password hashing failed: %w", err)
	}

	return string(hash), nil
}

// Verify compares plaintext against a stored bcrypt hash. bcrypt's own
// comparison is constant-time over the digest; any error (mismatch or a
// malformed hash) yields false rather than an error so callers have a
// single failure path.
func (c *credentialService) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidatePasswordPolicy checks the password rules in order: minimum
// length, then at least one uppercase letter, one lowercase letter, one
// digit, and, when enabled, one special character. The first unmet rule
// is returned; the ordering is fixed.
func (c *credentialService) ValidatePasswordPolicy(plaintext string) error {
	if len(plaintext) < passwordMinLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if !hasLower {
		return ErrPasswordNoLower
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if c.requireSpecialChar && !hasSpecial {
		return ErrPasswordNoSpecial
	}

	return nil
}

// ValidateIdentifier checks the format of a username or email.
//
// Usernames must be 3–50 characters of letters, digits, underscore, or
// hyphen. Emails must match a standard local@domain.tld shape.
func (c *credentialService) ValidateIdentifier(kind IdentifierKind, value string) error {
	switch kind {
	case IdentifierUsername:
		if len(value) < usernameMinLength || len(value) > usernameMaxLength || !usernamePattern.MatchString(value) {
			return ErrInvalidUsernameFormat
		}
		return nil
	case IdentifierEmail:
		if !emailPattern.MatchString(value) {
			return ErrInvalidEmailFormat
		}
		return nil
	default:
		return ErrInvalidDataProvided
	}
}

// EnsureUnique queries the account store for an existing account with the
// same identifier, excluding excludeID. Identifiers are normalized to
// lower case before the probe; the store compares case-insensitively as
// well, so uniqueness holds among active and inactive accounts alike.
//
// Returns store.ErrUsernameTaken or store.ErrEmailTaken on conflict.
func (c *credentialService) EnsureUnique(ctx context.Context, kind IdentifierKind, value string, excludeID int64) error {
	log := logger.FromContext(ctx)

	normalized := NormalizeIdentifier(value)

	var exists bool
	var err error
	var conflict error

	switch kind {
	case IdentifierUsername:
		exists, err = c.accountRepository.UsernameExists(ctx, normalized, excludeID)
		conflict = store.ErrUsernameTaken
	case IdentifierEmail:
		exists, err = c.accountRepository.EmailExists(ctx, normalized, excludeID)
		conflict = store.ErrEmailTaken
	default:
		return ErrInvalidDataProvided
	}

	if err != nil {
		log.Err(err).Str("kind", string(kind)).Msg("uniqueness probe failed")
		return fmt.Errorf("uniqueness probe failed: %w", err)
	}
	if exists {
		return conflict
	}

	return nil
}

// NormalizeIdentifier lower-cases and trims an identifier so comparisons
// and storage agree on one canonical form.
func NormalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
