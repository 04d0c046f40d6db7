package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/models"
)

// ─────────────────────────────────────────────
// auth middleware
// ─────────────────────────────────────────────

// A missing or malformed header is a client mistake, not a revoked
// credential: it answers 400, while unknown or expired tokens stay 401.
func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := newTestRouter(newTestServices(&mockAuthService{}, &mockSessionService{}, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := newTestRouter(newTestServices(&mockAuthService{}, &mockSessionService{}, &mockMemberService{}))

	req := httptestRequest(http.MethodPost, "/api/auth/logout", "")
	req.Header.Set("Authorization", "NotABearerToken")

	rec := serve(router, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}

func TestAuthMiddleware_UnknownToken(t *testing.T) {
	router := newTestRouter(newTestServices(&mockAuthService{}, &mockSessionService{}, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "unknown-token", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, rec).Code)
}

func TestAuthMiddleware_ExpiredSession(t *testing.T) {
	sessions := &mockSessionService{
		validateFn: func(_ context.Context, _ string) (models.Session, models.AccountSummary, error) {
			return models.Session{}, models.AccountSummary{}, service.ErrSessionExpired
		},
	}
	router := newTestRouter(newTestServices(&mockAuthService{}, sessions, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "stale-token", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "SESSION_EXPIRED", decodeError(t, rec).Code)
}

func TestAuthMiddleware_InactiveOwner(t *testing.T) {
	sessions := &mockSessionService{
		validateFn: func(_ context.Context, _ string) (models.Session, models.AccountSummary, error) {
			return models.Session{}, models.AccountSummary{}, service.ErrAccountInactive
		},
	}
	router := newTestRouter(newTestServices(&mockAuthService{}, sessions, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "orphan-token", nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ACCOUNT_INACTIVE", decodeError(t, rec).Code)
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer token", "Bearer abc123", "abc123", nil},
		{"single part", "abc123", "", ErrInvalidAuthorizationHeader},
		{"too many parts", "Bearer abc 123", "", ErrInvalidAuthorizationHeader},
		{"empty token", "Bearer ", "", ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			assert.Equal(t, tt.want, token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ─────────────────────────────────────────────
// requirePermission middleware
// ─────────────────────────────────────────────

func TestPermission_MemberCanReadDirectory(t *testing.T) {
	sessions := validatedAs(models.AccountSummary{AccountID: 1, Role: models.RoleMember})
	router := newTestRouter(newTestServices(&mockAuthService{}, sessions, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodGet, "/api/members", "valid-token", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPermission_MemberCannotWriteDirectory(t *testing.T) {
	sessions := validatedAs(models.AccountSummary{AccountID: 1, Role: models.RoleMember})
	router := newTestRouter(newTestServices(&mockAuthService{}, sessions, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/members", "valid-token", models.Member{FirstName: "Grace", LastName: "Hopper"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", decodeError(t, rec).Code)
}

func TestPermission_ManagerCanWriteDirectory(t *testing.T) {
	sessions := validatedAs(models.AccountSummary{AccountID: 2, Role: models.RoleManager})
	router := newTestRouter(newTestServices(&mockAuthService{}, sessions, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/members", "valid-token", models.Member{FirstName: "Grace", LastName: "Hopper"})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPermission_ManagerCannotAdministerAccounts(t *testing.T) {
	sessions := validatedAs(models.AccountSummary{AccountID: 2, Role: models.RoleManager})
	router := newTestRouter(newTestServices(&mockAuthService{}, sessions, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/admin/accounts/1/reactivate", "valid-token", nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", decodeError(t, rec).Code)
}

func TestPermission_AdminCanAdministerAccounts(t *testing.T) {
	sessions := validatedAs(models.AccountSummary{AccountID: 3, Role: models.RoleAdmin})

	var reactivated int64
	auth := &mockAuthService{
		reactivateFn: func(_ context.Context, accountID int64) error {
			reactivated = accountID
			return nil
		},
	}
	router := newTestRouter(newTestServices(auth, sessions, &mockMemberService{}))

	rec := doJSON(t, router, http.MethodPost, "/api/admin/accounts/42/reactivate", "valid-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), reactivated)
}

// ─────────────────────────────────────────────
// withRateLimit middleware
// ─────────────────────────────────────────────

func TestRateLimitMiddleware_RejectsFloods(t *testing.T) {
	limiter := service.NewRateLimiter(store.NewMemoryBucketStore(), time.Minute, 2, service.SystemClock(), logger.Nop())
	services := newTestServices(&mockAuthService{}, &mockSessionService{}, &mockMemberService{})
	services.APILimiter = limiter

	router := newTestRouter(services)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: "alice", Password: "x"})
		require.NotEqual(t, http.StatusTooManyRequests, rec.Code, "request %d", i+1)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: "alice", Password: "x"})

	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Code)
	assert.Greater(t, body.RetryAfter, int64(0))
}

func TestClientAddr(t *testing.T) {
	req := httptestRequest(http.MethodGet, "/", "")
	req.RemoteAddr = "198.51.100.4:9999"
	assert.Equal(t, "198.51.100.4", clientAddr(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientAddr(req))
}
