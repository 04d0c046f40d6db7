// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The church-ops Authors

package service

import (
	"context"
	"errors"
	"time"

	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/models"
)

var errStorage = errors.New("storage error")

// ─────────────────────────────────────────────
// Mock: store.AccountRepository
// ─────────────────────────────────────────────

type mockAccountRepository struct {
	createAccountFn         func(ctx context.Context, account models.Account) (models.Account, error)
	findByUsernameFn        func(ctx context.Context, username string) (models.Account, error)
	findByIDFn              func(ctx context.Context, accountID int64) (models.Account, error)
	usernameExistsFn        func(ctx context.Context, username string, excludeID int64) (bool, error)
	emailExistsFn           func(ctx context.Context, email string, excludeID int64) (bool, error)
	recordFailedAttemptFn   func(ctx context.Context, accountID int64, threshold int) (int, bool, error)
	recordSuccessfulLoginFn func(ctx context.Context, accountID int64) error
	reactivateFn            func(ctx context.Context, accountID int64) error
	deactivateFn            func(ctx context.Context, accountID int64) error
	updatePasswordFn        func(ctx context.Context, accountID int64, passwordHash string) error
	updateRoleFn            func(ctx context.Context, accountID int64, role models.Role) error
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, account)
	}
	return account, nil
}

func (m *mockAccountRepository) FindByUsername(ctx context.Context, username string) (models.Account, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return models.Account{}, store.ErrAccountNotFound
}

func (m *mockAccountRepository) FindByID(ctx context.Context, accountID int64) (models.Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, accountID)
	}
	return models.Account{}, store.ErrAccountNotFound
}

func (m *mockAccountRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	if m.usernameExistsFn != nil {
		return m.usernameExistsFn(ctx, username, excludeID)
	}
	return false, nil
}

func (m *mockAccountRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email, excludeID)
	}
	return false, nil
}

func (m *mockAccountRepository) RecordFailedAttempt(ctx context.Context, accountID int64, threshold int) (int, bool, error) {
	if m.recordFailedAttemptFn != nil {
		return m.recordFailedAttemptFn(ctx, accountID, threshold)
	}
	return 1, true, nil
}

func (m *mockAccountRepository) RecordSuccessfulLogin(ctx context.Context, accountID int64) error {
	if m.recordSuccessfulLoginFn != nil {
		return m.recordSuccessfulLoginFn(ctx, accountID)
	}
	return nil
}

func (m *mockAccountRepository) Reactivate(ctx context.Context, accountID int64) error {
	if m.reactivateFn != nil {
		return m.reactivateFn(ctx, accountID)
	}
	return nil
}

func (m *mockAccountRepository) Deactivate(ctx context.Context, accountID int64) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, accountID)
	}
	return nil
}

func (m *mockAccountRepository) UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, accountID, passwordHash)
	}
	return nil
}

func (m *mockAccountRepository) UpdateRole(ctx context.Context, accountID int64, role models.Role) error {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, accountID, role)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.SessionRepository
// ─────────────────────────────────────────────

type mockSessionRepository struct {
	insertFn                func(ctx context.Context, session models.Session) error
	findByTokenFn           func(ctx context.Context, token string) (store.SessionWithAccount, error)
	touchFn                 func(ctx context.Context, token string, at time.Time) error
	extendFn                func(ctx context.Context, token string, expiresAt, at time.Time) (models.Session, error)
	deleteByTokenFn         func(ctx context.Context, token string) error
	deleteByAccountFn       func(ctx context.Context, accountID int64) (int64, error)
	deleteByAccountExceptFn func(ctx context.Context, accountID int64, keepToken string) (int64, error)
	deleteExpiredFn         func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepository) Insert(ctx context.Context, session models.Session) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepository) FindByToken(ctx context.Context, token string) (store.SessionWithAccount, error) {
	if m.findByTokenFn != nil {
		return m.findByTokenFn(ctx, token)
	}
	return store.SessionWithAccount{}, store.ErrSessionNotFound
}

func (m *mockSessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, token, at)
	}
	return nil
}

func (m *mockSessionRepository) Extend(ctx context.Context, token string, expiresAt, at time.Time) (models.Session, error) {
	if m.extendFn != nil {
		return m.extendFn(ctx, token, expiresAt, at)
	}
	return models.Session{}, store.ErrSessionNotFound
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	if m.deleteByAccountFn != nil {
		return m.deleteByAccountFn(ctx, accountID)
	}
	return 0, nil
}

func (m *mockSessionRepository) DeleteByAccountExcept(ctx context.Context, accountID int64, keepToken string) (int64, error) {
	if m.deleteByAccountExceptFn != nil {
		return m.deleteByAccountExceptFn(ctx, accountID, keepToken)
	}
	return 0, nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.MemberRepository
// ─────────────────────────────────────────────

type mockMemberRepository struct {
	createMemberFn   func(ctx context.Context, member models.Member) (models.Member, error)
	findMemberByIDFn func(ctx context.Context, memberID int64) (models.Member, error)
	listMembersFn    func(ctx context.Context) ([]models.Member, error)
	updateMemberFn   func(ctx context.Context, update models.MemberUpdate) error
	deleteMemberFn   func(ctx context.Context, memberID int64) error
}

func (m *mockMemberRepository) CreateMember(ctx context.Context, member models.Member) (models.Member, error) {
	if m.createMemberFn != nil {
		return m.createMemberFn(ctx, member)
	}
	return member, nil
}

func (m *mockMemberRepository) FindMemberByID(ctx context.Context, memberID int64) (models.Member, error) {
	if m.findMemberByIDFn != nil {
		return m.findMemberByIDFn(ctx, memberID)
	}
	return models.Member{}, store.ErrMemberNotFound
}

func (m *mockMemberRepository) ListMembers(ctx context.Context) ([]models.Member, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx)
	}
	return nil, nil
}

func (m *mockMemberRepository) UpdateMember(ctx context.Context, update models.MemberUpdate) error {
	if m.updateMemberFn != nil {
		return m.updateMemberFn(ctx, update)
	}
	return nil
}

func (m *mockMemberRepository) DeleteMember(ctx context.Context, memberID int64) error {
	if m.deleteMemberFn != nil {
		return m.deleteMemberFn(ctx, memberID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Fake clock
// ─────────────────────────────────────────────

// fakeClock is a manually-advanced Clock for deterministic window and
// expiry tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
