package service

import (
	"context"
	"fmt"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/internal/validators"
	"github.com/churchkit/church-ops/models"
)

// memberService is the concrete implementation of [MemberService]. It
// validates directory input and delegates persistence to the member
// repository.
type memberService struct {
	memberRepository store.MemberRepository
	validator        validators.Validator
	logger           *logger.Logger
}

// NewMemberService constructs a [MemberService] wired to the given
// repository.
func NewMemberService(memberRepository store.MemberRepository, logger *logger.Logger) MemberService {
	return &memberService{
		memberRepository: memberRepository,
		validator:        validators.NewMemberValidator(),
		logger:           logger,
	}
}

// CreateMember validates and persists a new directory record.
func (m *memberService) CreateMember(ctx context.Context, member models.Member) (models.Member, error) {
	if err := m.validator.Validate(ctx, member); err != nil {
		return models.Member{}, err
	}

	created, err := m.memberRepository.CreateMember(ctx, member)
	if err != nil {
		return models.Member{}, fmt.Errorf("member creation failed: %w", err)
	}

	return created, nil
}

// GetMember retrieves one directory record.
func (m *memberService) GetMember(ctx context.Context, memberID int64) (models.Member, error) {
	if memberID <= 0 {
		return models.Member{}, ErrInvalidDataProvided
	}

	return m.memberRepository.FindMemberByID(ctx, memberID)
}

// ListMembers returns the whole directory.
func (m *memberService) ListMembers(ctx context.Context) ([]models.Member, error) {
	return m.memberRepository.ListMembers(ctx)
}

// UpdateMember validates and applies a partial update.
func (m *memberService) UpdateMember(ctx context.Context, update models.MemberUpdate) error {
	if err := m.validator.Validate(ctx, update); err != nil {
		return err
	}

	return m.memberRepository.UpdateMember(ctx, update)
}

// DeleteMember removes one directory record.
func (m *memberService) DeleteMember(ctx context.Context, memberID int64) error {
	if memberID <= 0 {
		return ErrInvalidDataProvided
	}

	return m.memberRepository.DeleteMember(ctx, memberID)
}
