// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The church-ops Authors

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/models"
)

// ─────────────────────────────────────────────
// Mock: service.AuthService
// ─────────────────────────────────────────────

type mockAuthService struct {
	loginFn                 func(ctx context.Context, req models.LoginRequest, clientAddr string) (models.Session, models.AccountSummary, error)
	refreshFn               func(ctx context.Context, token string) (models.Session, error)
	registerFn              func(ctx context.Context, req models.RegisterRequest) (models.Account, error)
	changePasswordFn        func(ctx context.Context, accountID int64, currentToken string, req models.ChangePasswordRequest) (int64, error)
	requestPasswordResetFn  func(ctx context.Context, username string) (string, error)
	completePasswordResetFn func(ctx context.Context, token, newPassword string) error
	reactivateFn            func(ctx context.Context, accountID int64) error
	deactivateFn            func(ctx context.Context, accountID int64) error
	changeRoleFn            func(ctx context.Context, accountID int64, role models.Role) error
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest, clientAddr string) (models.Session, models.AccountSummary, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req, clientAddr)
	}
	return models.Session{}, models.AccountSummary{}, service.ErrInvalidCredentials
}

func (m *mockAuthService) Refresh(ctx context.Context, token string) (models.Session, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, token)
	}
	return models.Session{}, service.ErrSessionNotFound
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return models.Account{}, nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, accountID int64, currentToken string, req models.ChangePasswordRequest) (int64, error) {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, accountID, currentToken, req)
	}
	return 0, nil
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	if m.requestPasswordResetFn != nil {
		return m.requestPasswordResetFn(ctx, username)
	}
	return "", store.ErrAccountNotFound
}

func (m *mockAuthService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if m.completePasswordResetFn != nil {
		return m.completePasswordResetFn(ctx, token, newPassword)
	}
	return service.ErrResetTokenInvalid
}

func (m *mockAuthService) Reactivate(ctx context.Context, accountID int64) error {
	if m.reactivateFn != nil {
		return m.reactivateFn(ctx, accountID)
	}
	return nil
}

func (m *mockAuthService) Deactivate(ctx context.Context, accountID int64) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, accountID)
	}
	return nil
}

func (m *mockAuthService) ChangeRole(ctx context.Context, accountID int64, role models.Role) error {
	if m.changeRoleFn != nil {
		return m.changeRoleFn(ctx, accountID, role)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.SessionService
// ─────────────────────────────────────────────

type mockSessionService struct {
	createFn                    func(ctx context.Context, accountID int64, duration time.Duration) (models.Session, error)
	validateFn                  func(ctx context.Context, token string) (models.Session, models.AccountSummary, error)
	refreshFn                   func(ctx context.Context, token string, duration time.Duration) (models.Session, error)
	invalidateFn                func(ctx context.Context, token string) error
	invalidateAllForAccountFn   func(ctx context.Context, accountID int64) (int64, error)
	invalidateOthersForAccountF func(ctx context.Context, accountID int64, keepToken string) (int64, error)
	sweepExpiredFn              func(ctx context.Context) (int64, error)
}

func (m *mockSessionService) Create(ctx context.Context, accountID int64, duration time.Duration) (models.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, accountID, duration)
	}
	return models.Session{}, nil
}

func (m *mockSessionService) Validate(ctx context.Context, token string) (models.Session, models.AccountSummary, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, token)
	}
	return models.Session{}, models.AccountSummary{}, service.ErrSessionNotFound
}

func (m *mockSessionService) Refresh(ctx context.Context, token string, duration time.Duration) (models.Session, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, token, duration)
	}
	return models.Session{}, service.ErrSessionNotFound
}

func (m *mockSessionService) Invalidate(ctx context.Context, token string) error {
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx, token)
	}
	return nil
}

func (m *mockSessionService) InvalidateAllForAccount(ctx context.Context, accountID int64) (int64, error) {
	if m.invalidateAllForAccountFn != nil {
		return m.invalidateAllForAccountFn(ctx, accountID)
	}
	return 0, nil
}

func (m *mockSessionService) InvalidateOthersForAccount(ctx context.Context, accountID int64, keepToken string) (int64, error) {
	if m.invalidateOthersForAccountF != nil {
		return m.invalidateOthersForAccountF(ctx, accountID, keepToken)
	}
	return 0, nil
}

func (m *mockSessionService) SweepExpired(ctx context.Context) (int64, error) {
	if m.sweepExpiredFn != nil {
		return m.sweepExpiredFn(ctx)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: service.MemberService
// ─────────────────────────────────────────────

type mockMemberService struct {
	createMemberFn func(ctx context.Context, member models.Member) (models.Member, error)
	getMemberFn    func(ctx context.Context, memberID int64) (models.Member, error)
	listMembersFn  func(ctx context.Context) ([]models.Member, error)
	updateMemberFn func(ctx context.Context, update models.MemberUpdate) error
	deleteMemberFn func(ctx context.Context, memberID int64) error
}

func (m *mockMemberService) CreateMember(ctx context.Context, member models.Member) (models.Member, error) {
	if m.createMemberFn != nil {
		return m.createMemberFn(ctx, member)
	}
	return member, nil
}

func (m *mockMemberService) GetMember(ctx context.Context, memberID int64) (models.Member, error) {
	if m.getMemberFn != nil {
		return m.getMemberFn(ctx, memberID)
	}
	return models.Member{}, store.ErrMemberNotFound
}

func (m *mockMemberService) ListMembers(ctx context.Context) ([]models.Member, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx)
	}
	return nil, nil
}

func (m *mockMemberService) UpdateMember(ctx context.Context, update models.MemberUpdate) error {
	if m.updateMemberFn != nil {
		return m.updateMemberFn(ctx, update)
	}
	return nil
}

func (m *mockMemberService) DeleteMember(ctx context.Context, memberID int64) error {
	if m.deleteMemberFn != nil {
		return m.deleteMemberFn(ctx, memberID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Test harness
// ─────────────────────────────────────────────

// newTestServices builds a Services aggregate around the given mocks
// with a permissive real API limiter, so the routing middleware chain
// stays fully wired.
func newTestServices(auth *mockAuthService, sessions *mockSessionService, members *mockMemberService) *service.Services {
	limiter := service.NewRateLimiter(store.NewMemoryBucketStore(), time.Minute, 1000, service.SystemClock(), logger.Nop())
	return &service.Services{
		AuthService:    auth,
		SessionService: sessions,
		MemberService:  members,
		AuthLimiter:    limiter,
		APILimiter:     limiter,
	}
}

func newTestRouter(services *service.Services) http.Handler {
	return NewHandler(services, logger.Nop()).Init()
}

// validatedAs wires the session middleware to accept the "valid-token"
// bearer token as the given account summary.
func validatedAs(summary models.AccountSummary) *mockSessionService {
	return &mockSessionService{
		validateFn: func(_ context.Context, token string) (models.Session, models.AccountSummary, error) {
			if token != "valid-token" {
				return models.Session{}, models.AccountSummary{}, service.ErrSessionNotFound
			}
			return models.Session{Token: token, AccountID: summary.AccountID}, summary, nil
		},
	}
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.RemoteAddr = "192.0.2.1:54321"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// httptestRequest builds a request with a raw string body, for cases
// where the payload is deliberately malformed.
func httptestRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:54321"
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(rec *httptest.ResponseRecorder, dst any) error {
	return json.NewDecoder(rec.Body).Decode(dst)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()

	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}
