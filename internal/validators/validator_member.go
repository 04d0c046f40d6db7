package validators

import (
	"context"
	"regexp"

	"github.com/churchkit/church-ops/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a
// subset of fields (field-level scoping).
const (
	FieldMemberID  = "member_id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldNotes     = "notes"
)

const (
	maxNameLength  = 100
	maxNotesLength = 2000
)

var (
	memberEmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	memberPhonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)
)

type MemberValidator struct {
}

func NewMemberValidator() Validator {
	return &MemberValidator{}
}

func (v *MemberValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Member:
		return v.validateMember(ctx, value, fields...)
	case *models.Member:
		return v.validateMember(ctx, *value, fields...)

	case models.MemberUpdate:
		return v.validateMemberUpdate(ctx, value, fields...)
	case *models.MemberUpdate:
		return v.validateMemberUpdate(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *MemberValidator) validateMember(_ context.Context, member models.Member, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldNotes}
	}

	for _, f := range fields {
		switch f {
		case FieldMemberID:
			if member.MemberID <= 0 {
				return ErrInvalidMemberID
			}
		case FieldFirstName:
			if member.FirstName == "" {
				return ErrEmptyFirstName
			}
			if len(member.FirstName) > maxNameLength {
				return ErrNameTooLong
			}
		case FieldLastName:
			if member.LastName == "" {
				return ErrEmptyLastName
			}
			if len(member.LastName) > maxNameLength {
				return ErrNameTooLong
			}
		case FieldEmail:
			if member.Email != "" && !memberEmailPattern.MatchString(member.Email) {
				return ErrInvalidEmail
			}
		case FieldPhone:
			if member.Phone != "" && !memberPhonePattern.MatchString(member.Phone) {
				return ErrInvalidPhone
			}
		case FieldNotes:
			if len(member.Notes) > maxNotesLength {
				return ErrNotesTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *MemberValidator) validateMemberUpdate(_ context.Context, update models.MemberUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldMemberID, FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldNotes}
	}

	hasUpdate := update.FirstName != nil || update.LastName != nil ||
		update.Email != nil || update.Phone != nil ||
		update.JoinedAt != nil || update.Notes != nil
	if !hasUpdate {
		return ErrNoFieldsToUpdate
	}

	for _, f := range fields {
		switch f {
		case FieldMemberID:
			if update.MemberID <= 0 {
				return ErrInvalidMemberID
			}
		case FieldFirstName:
			if update.FirstName != nil {
				if *update.FirstName == "" {
					return ErrEmptyFirstName
				}
				if len(*update.FirstName) > maxNameLength {
					return ErrNameTooLong
				}
			}
		case FieldLastName:
			if update.LastName != nil {
				if *update.LastName == "" {
					return ErrEmptyLastName
				}
				if len(*update.LastName) > maxNameLength {
					return ErrNameTooLong
				}
			}
		case FieldEmail:
			if update.Email != nil && *update.Email != "" && !memberEmailPattern.MatchString(*update.Email) {
				return ErrInvalidEmail
			}
		case FieldPhone:
			if update.Phone != nil && *update.Phone != "" && !memberPhonePattern.MatchString(*update.Phone) {
				return ErrInvalidPhone
			}
		case FieldNotes:
			if update.Notes != nil && len(*update.Notes) > maxNotesLength {
				return ErrNotesTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
