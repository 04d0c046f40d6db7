package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidMemberID  = errors.New("invalid member ID")
	ErrEmptyFirstName   = errors.New("first name is required")
	ErrEmptyLastName    = errors.New("last name is required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrNotesTooLong     = errors.New("notes exceed maximum length")
)
