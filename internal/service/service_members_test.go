package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/internal/validators"
	"github.com/churchkit/church-ops/models"
)

func newTestMemberService(members *mockMemberRepository) MemberService {
	return NewMemberService(members, logger.Nop())
}

func validMember() models.Member {
	return models.Member{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.org",
		Phone:     "+1 (555) 123-4567",
	}
}

// ─────────────────────────────────────────────
// CreateMember
// ─────────────────────────────────────────────

func TestMemberService_CreateMember_Success(t *testing.T) {
	var persisted models.Member
	members := &mockMemberRepository{
		createMemberFn: func(_ context.Context, member models.Member) (models.Member, error) {
			persisted = member
			member.MemberID = 11
			return member, nil
		},
	}
	svc := newTestMemberService(members)

	created, err := svc.CreateMember(context.Background(), validMember())
	require.NoError(t, err)

	assert.Equal(t, int64(11), created.MemberID)
	assert.Equal(t, "Grace", persisted.FirstName)
}

func TestMemberService_CreateMember_ValidationFailures(t *testing.T) {
	svc := newTestMemberService(&mockMemberRepository{})

	tests := []struct {
		name   string
		mutate func(m *models.Member)
		want   error
	}{
		{"empty first name", func(m *models.Member) { m.FirstName = "" }, validators.ErrEmptyFirstName},
		{"empty last name", func(m *models.Member) { m.LastName = "" }, validators.ErrEmptyLastName},
		{"bad email", func(m *models.Member) { m.Email = "not-an-email" }, validators.ErrInvalidEmail},
		{"bad phone", func(m *models.Member) { m.Phone = "abc" }, validators.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member := validMember()
			tt.mutate(&member)

			_, err := svc.CreateMember(context.Background(), member)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMemberService_CreateMember_OptionalContactFields(t *testing.T) {
	svc := newTestMemberService(&mockMemberRepository{})

	member := validMember()
	member.Email = ""
	member.Phone = ""

	_, err := svc.CreateMember(context.Background(), member)
	assert.NoError(t, err)
}

func TestMemberService_CreateMember_StorageError(t *testing.T) {
	members := &mockMemberRepository{
		createMemberFn: func(_ context.Context, _ models.Member) (models.Member, error) {
			return models.Member{}, errStorage
		},
	}
	svc := newTestMemberService(members)

	_, err := svc.CreateMember(context.Background(), validMember())
	assert.ErrorIs(t, err, errStorage)
}

// ─────────────────────────────────────────────
// GetMember / ListMembers
// ─────────────────────────────────────────────

func TestMemberService_GetMember(t *testing.T) {
	members := &mockMemberRepository{
		findMemberByIDFn: func(_ context.Context, memberID int64) (models.Member, error) {
			if memberID == 11 {
				return models.Member{MemberID: 11, FirstName: "Grace", LastName: "Hopper"}, nil
			}
			return models.Member{}, store.ErrMemberNotFound
		},
	}
	svc := newTestMemberService(members)

	member, err := svc.GetMember(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Grace", member.FirstName)

	_, err = svc.GetMember(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrMemberNotFound)

	_, err = svc.GetMember(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestMemberService_ListMembers(t *testing.T) {
	members := &mockMemberRepository{
		listMembersFn: func(_ context.Context) ([]models.Member, error) {
			return []models.Member{{MemberID: 1}, {MemberID: 2}}, nil
		},
	}
	svc := newTestMemberService(members)

	list, err := svc.ListMembers(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// ─────────────────────────────────────────────
// UpdateMember / DeleteMember
// ─────────────────────────────────────────────

func TestMemberService_UpdateMember(t *testing.T) {
	firstName := "Ada"

	var applied models.MemberUpdate
	members := &mockMemberRepository{
		updateMemberFn: func(_ context.Context, update models.MemberUpdate) error {
			applied = update
			return nil
		},
	}
	svc := newTestMemberService(members)

	err := svc.UpdateMember(context.Background(), models.MemberUpdate{
		MemberID:  11,
		FirstName: &firstName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", *applied.FirstName)
}

func TestMemberService_UpdateMember_ValidationFailures(t *testing.T) {
	svc := newTestMemberService(&mockMemberRepository{})

	empty := ""
	badEmail := "nope"

	tests := []struct {
		name   string
		update models.MemberUpdate
		want   error
	}{
		{"bad member id", models.MemberUpdate{MemberID: 0, FirstName: &badEmail}, validators.ErrInvalidMemberID},
		{"no fields", models.MemberUpdate{MemberID: 11}, validators.ErrNoFieldsToUpdate},
		{"first name cleared", models.MemberUpdate{MemberID: 11, FirstName: &empty}, validators.ErrEmptyFirstName},
		{"bad email", models.MemberUpdate{MemberID: 11, Email: &badEmail}, validators.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.UpdateMember(context.Background(), tt.update)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMemberService_DeleteMember(t *testing.T) {
	var deleted int64
	members := &mockMemberRepository{
		deleteMemberFn: func(_ context.Context, memberID int64) error {
			deleted = memberID
			return nil
		},
	}
	svc := newTestMemberService(members)

	require.NoError(t, svc.DeleteMember(context.Background(), 11))
	assert.Equal(t, int64(11), deleted)

	assert.ErrorIs(t, svc.DeleteMember(context.Background(), -1), ErrInvalidDataProvided)
}
