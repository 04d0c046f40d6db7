package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/churchkit/church-ops/internal/config"
	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/internal/utils"
	"github.com/churchkit/church-ops/models"
)

// authService is the concrete implementation of [AuthService]. It
// orchestrates the login control flow across the rate limiter, the
// credential service, the failed-attempt accounting in the account store,
// and the session manager.
//
// Failure accounting and lockout are a single atomic read-modify-write in
// the account repository, so concurrent failed logins cannot race past
// the threshold.
type authService struct {
	accountRepository store.AccountRepository
	credentials       CredentialService
	sessions          SessionService

	// loginLimiter is keyed per client address and per submitted
	// username; both buckets must pass for a login attempt to proceed.
	loginLimiter RateLimiter

	// lockoutThreshold is the failed-attempt count at which an account
	// is deactivated.
	lockoutThreshold int

	// sessionDuration and rememberMeDuration are the two lifetimes the
	// login handler can request; the session service treats them as
	// plain caller-supplied parameters.
	sessionDuration    time.Duration
	rememberMeDuration time.Duration

	// resetTokenSignKey, resetTokenIssuer, and resetTokenDuration
	// parameterize password-reset token issuance.
	resetTokenSignKey  string
	resetTokenIssuer   string
	resetTokenDuration time.Duration

	// logger is the structured logger used for security audit output.
	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given
// collaborators and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(
	accountRepository store.AccountRepository,
	credentials CredentialService,
	sessions SessionService,
	loginLimiter RateLimiter,
	cfg config.Auth,
	logger *logger.Logger,
) AuthService {
	return &authService{
		accountRepository:  accountRepository,
		credentials:        credentials,
		sessions:           sessions,
		loginLimiter:       loginLimiter,
		lockoutThreshold:   cfg.LockoutThreshold,
		sessionDuration:    cfg.SessionDuration,
		rememberMeDuration: cfg.RememberMeDuration,
		resetTokenSignKey:  cfg.ResetTokenSignKey,
		resetTokenIssuer:   cfg.ResetTokenIssuer,
		resetTokenDuration: cfg.ResetTokenDuration,
		logger:             logger,
	}
}

// loginIdentifiers builds the rate-limit keys for one login event: the
// caller's address and the submitted username, limited independently.
func loginIdentifiers(clientAddr, username string) []string {
	return []string{
		"ip:" + clientAddr,
		"user:" + NormalizeIdentifier(username),
	}
}

// Login authenticates a user and issues a session.
//
// Control flow: rate-limit check on both identifiers, account lookup,
// lockout check, password verification, then failure accounting or
// session issuance. The error surface deliberately folds "unknown user"
// and "wrong password" into ErrInvalidCredentials.
//
// Returns:
//   - *RateLimitedError when either identifier is over its limit.
//   - ErrInvalidDataProvided when username or password is empty.
//   - ErrInvalidCredentials on unknown user or wrong password.
//   - ErrAccountLocked / ErrAccountInactive for deactivated accounts,
//     regardless of password correctness.
//   - ErrPasswordResetRequired when the account is flagged for a forced
//     password change.
func (a *authService) Login(ctx context.Context, req models.LoginRequest, clientAddr string) (models.Session, models.AccountSummary, error) {
	log := logger.FromContext(ctx)

	if req.Username == "" || req.Password == "" {
		return models.Session{}, models.AccountSummary{}, ErrInvalidDataProvided
	}

	identifiers := loginIdentifiers(clientAddr, req.Username)
	if allowed, retryAfter := a.loginLimiter.CheckAll(identifiers...); !allowed {
		log.Warn().Str("client_addr", clientAddr).Str("username", req.Username).Msg("login rate limited")
		return models.Session{}, models.AccountSummary{}, &RateLimitedError{RetryAfter: retryAfter}
	}

	account, err := a.accountRepository.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Warn().Str("username", req.Username).Msg("login for unknown username")
			return models.Session{}, models.AccountSummary{}, ErrInvalidCredentials
		}
		return models.Session{}, models.AccountSummary{}, fmt.Errorf("account lookup failed: %w", err)
	}

	if !account.Active {
		// Locked accounts fail before the password is even looked at,
		// and the counter stays where it is.
		log.Warn().Int64("account_id", account.AccountID).Msg("login attempt against inactive account")
		return models.Session{}, models.AccountSummary{}, a.inactiveError(account)
	}

	if !a.credentials.Verify(req.Password, account.PasswordHash) {
		attempts, stillActive, recordErr := a.accountRepository.RecordFailedAttempt(ctx, account.AccountID, a.lockoutThreshold)
		if recordErr != nil && !errors.Is(recordErr, store.ErrAccountInactive) {
			return models.Session{}, models.AccountSummary{}, fmt.Errorf("failed-attempt accounting failed: %w", recordErr)
		}
		if !stillActive {
			log.Warn().Int64("account_id", account.AccountID).Int("attempts", attempts).Msg("account locked by failed-attempt threshold")
		} else {
			log.Warn().Int64("account_id", account.AccountID).Int("attempts", attempts).Msg("failed login attempt")
		}
		return models.Session{}, models.AccountSummary{}, ErrInvalidCredentials
	}

	if account.PasswordResetRequired {
		return models.Session{}, models.AccountSummary{}, ErrPasswordResetRequired
	}

	if err := a.accountRepository.RecordSuccessfulLogin(ctx, account.AccountID); err != nil {
		return models.Session{}, models.AccountSummary{}, fmt.Errorf("login accounting failed: %w", err)
	}
	a.loginLimiter.ResetAll(identifiers...)

	duration := a.sessionDuration
	if req.RememberMe {
		duration = a.rememberMeDuration
	}

	session, err := a.sessions.Create(ctx, account.AccountID, duration)
	if err != nil {
		return models.Session{}, models.AccountSummary{}, fmt.Errorf("session creation failed: %w", err)
	}

	log.Info().Int64("account_id", account.AccountID).Msg("user logged in")

	return session, account.Summary(), nil
}

// Refresh extends the session behind token by the standard session
// duration from now. The token value is unchanged.
func (a *authService) Refresh(ctx context.Context, token string) (models.Session, error) {
	return a.sessions.Refresh(ctx, token, a.sessionDuration)
}

// inactiveError distinguishes threshold lockout from administrative
// deactivation by the failure counter, so the API can report
// ACCOUNT_LOCKED and ACCOUNT_INACTIVE separately.
func (a *authService) inactiveError(account models.Account) error {
	if account.FailedAttempts >= a.lockoutThreshold {
		return ErrAccountLocked
	}
	return ErrAccountInactive
}

// Register creates a new account.
//
// Identifier formats are validated first, then the password policy, then
// case-insensitive uniqueness of username and email. The password is
// hashed before anything is persisted.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	if err := a.credentials.ValidateIdentifier(IdentifierUsername, req.Username); err != nil {
		return models.Account{}, err
	}
	if err := a.credentials.ValidateIdentifier(IdentifierEmail, req.Email); err != nil {
		return models.Account{}, err
	}
	if err := a.credentials.ValidatePasswordPolicy(req.Password); err != nil {
		return models.Account{}, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return models.Account{}, ErrInvalidRole
	}

	if err := a.credentials.EnsureUnique(ctx, IdentifierUsername, req.Username, 0); err != nil {
		return models.Account{}, err
	}
	if err := a.credentials.EnsureUnique(ctx, IdentifierEmail, req.Email, 0); err != nil {
		return models.Account{}, err
	}

	hash, err := a.credentials.Hash(req.Password)
	if err != nil {
		return models.Account{}, err
	}

	account, err := a.accountRepository.CreateAccount(ctx, models.Account{
		Username:     NormalizeIdentifier(req.Username),
		Email:        NormalizeIdentifier(req.Email),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("account creation failed")
		return models.Account{}, err
	}

	log.Info().Int64("account_id", account.AccountID).Str("username", account.Username).Msg("account registered")

	return account, nil
}

// ChangePassword re-verifies the current password, validates the new one
// against the policy, stores the new hash, and, when requested, revokes
// every other session of the account. Returns the number of revoked
// sessions.
func (a *authService) ChangePassword(ctx context.Context, accountID int64, currentToken string, req models.ChangePasswordRequest) (int64, error) {
	log := logger.FromContext(ctx)

	account, err := a.accountRepository.FindByID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	if !a.credentials.Verify(req.CurrentPassword, account.PasswordHash) {
		log.Warn().Int64("account_id", accountID).Msg("password change with wrong current password")
		return 0, ErrInvalidCredentials
	}

	if err := a.credentials.ValidatePasswordPolicy(req.NewPassword); err != nil {
		return 0, err
	}

	hash, err := a.credentials.Hash(req.NewPassword)
	if err != nil {
		return 0, err
	}

	if err := a.accountRepository.UpdatePassword(ctx, accountID, hash); err != nil {
		return 0, err
	}

	var invalidated int64
	if req.InvalidateOtherSessions {
		invalidated, err = a.sessions.InvalidateOthersForAccount(ctx, accountID, currentToken)
		if err != nil {
			return 0, err
		}
	}

	log.Info().Int64("account_id", accountID).Int64("invalidated", invalidated).Msg("password changed")

	return invalidated, nil
}

// RequestPasswordReset issues a short-lived signed token for the account
// with the given username. Token delivery (e.g. email) is out of scope;
// the caller decides what to do with the token string.
//
// Returns store.ErrAccountNotFound for an unknown username; the HTTP
// layer is expected to mask that from clients.
func (a *authService) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	account, err := a.accountRepository.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	token, err := utils.GenerateResetToken(a.resetTokenIssuer, account.AccountID, a.resetTokenDuration, a.resetTokenSignKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenGenerationFailed, err)
	}

	logger.FromContext(ctx).Info().Int64("account_id", account.AccountID).Msg("password reset token issued")

	return token, nil
}

// CompletePasswordReset verifies a reset token, applies the password
// policy, stores the new hash, and revokes every session of the account.
func (a *authService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	accountID, err := utils.ValidateResetToken(token, a.resetTokenSignKey, a.resetTokenIssuer)
	if err != nil {
		log.Warn().Msg("invalid password reset token presented")
		return ErrResetTokenInvalid
	}

	if err := a.credentials.ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := a.credentials.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := a.accountRepository.UpdatePassword(ctx, accountID, hash); err != nil {
		return err
	}

	if _, err := a.sessions.InvalidateAllForAccount(ctx, accountID); err != nil {
		return err
	}

	log.Info().Int64("account_id", accountID).Msg("password reset completed")

	return nil
}

// Reactivate is the administrative Locked -> Active transition. The
// failure counter resets to zero as part of the same statement.
func (a *authService) Reactivate(ctx context.Context, accountID int64) error {
	if err := a.accountRepository.Reactivate(ctx, accountID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("account_id", accountID).Msg("account reactivated")

	return nil
}

// Deactivate disables the account and cascades the revocation of all of
// its sessions.
func (a *authService) Deactivate(ctx context.Context, accountID int64) error {
	if err := a.accountRepository.Deactivate(ctx, accountID); err != nil {
		return err
	}

	if _, err := a.sessions.InvalidateAllForAccount(ctx, accountID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("account_id", accountID).Msg("account deactivated")

	return nil
}

// ChangeRole assigns a new role and revokes all of the account's sessions
// so no session carries a stale permission set.
func (a *authService) ChangeRole(ctx context.Context, accountID int64, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	if err := a.accountRepository.UpdateRole(ctx, accountID, role); err != nil {
		return err
	}

	if _, err := a.sessions.InvalidateAllForAccount(ctx, accountID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Int64("account_id", accountID).Str("role", string(role)).Msg("account role changed")

	return nil
}
