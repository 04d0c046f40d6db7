package http

import (
	"errors"
	"net/http"

	"github.com/churchkit/church-ops/internal/service"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/internal/utils"
	"github.com/churchkit/church-ops/internal/validators"
	"github.com/churchkit/church-ops/models"
)

// Stable machine-readable error codes of the API. Clients switch on
// these, never on response text.
const (
	codeValidationError     = "VALIDATION_ERROR"
	codeInvalidCredentials  = "INVALID_CREDENTIALS"
	codeAccountLocked       = "ACCOUNT_LOCKED"
	codeAccountInactive     = "ACCOUNT_INACTIVE"
	codePasswordResetNeeded = "PASSWORD_RESET_REQUIRED"
	codeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	codeInvalidToken        = "INVALID_TOKEN"
	codeSessionExpired      = "SESSION_EXPIRED"
	codeUsernameTaken       = "USERNAME_TAKEN"
	codeEmailTaken          = "EMAIL_TAKEN"
	codeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	codeMemberNotFound      = "MEMBER_NOT_FOUND"
	codeResetTokenInvalid   = "RESET_TOKEN_INVALID"
	codePermissionDenied    = "PERMISSION_DENIED"
	codeInternalServerError = "INTERNAL_ERROR"
)

// mappedError pairs an HTTP status with the stable code written in the
// JSON error body.
type mappedError struct {
	status int
	code   string
}

var errorStatusMap = map[error]mappedError{
	service.ErrInvalidDataProvided:   {http.StatusBadRequest, codeValidationError},
	service.ErrInvalidCredentials:    {http.StatusUnauthorized, codeInvalidCredentials},
	service.ErrAccountLocked:         {http.StatusForbidden, codeAccountLocked},
	service.ErrAccountInactive:       {http.StatusForbidden, codeAccountInactive},
	service.ErrPasswordResetRequired: {http.StatusForbidden, codePasswordResetNeeded},
	service.ErrSessionExpired:        {http.StatusUnauthorized, codeSessionExpired},
	service.ErrSessionNotFound:       {http.StatusUnauthorized, codeInvalidToken},
	service.ErrResetTokenInvalid:     {http.StatusUnauthorized, codeResetTokenInvalid},

	service.ErrPasswordTooShort:      {http.StatusBadRequest, codeValidationError},
	service.ErrPasswordNoUpper:       {http.StatusBadRequest, codeValidationError},
	service.ErrPasswordNoLower:       {http.StatusBadRequest, codeValidationError},
	service.ErrPasswordNoDigit:       {http.StatusBadRequest, codeValidationError},
	service.ErrPasswordNoSpecial:     {http.StatusBadRequest, codeValidationError},
	service.ErrInvalidUsernameFormat: {http.StatusBadRequest, codeValidationError},
	service.ErrInvalidEmailFormat:    {http.StatusBadRequest, codeValidationError},
	service.ErrInvalidRole:           {http.StatusBadRequest, codeValidationError},

	ErrEmptyAuthorizationHeader:   {http.StatusBadRequest, codeValidationError},
	ErrInvalidAuthorizationHeader: {http.StatusBadRequest, codeValidationError},
	ErrEmptyToken:                 {http.StatusBadRequest, codeValidationError},

	validators.ErrUnsupportedType:  {http.StatusBadRequest, codeValidationError},
	validators.ErrInvalidMemberID:  {http.StatusBadRequest, codeValidationError},
	validators.ErrEmptyFirstName:   {http.StatusBadRequest, codeValidationError},
	validators.ErrEmptyLastName:    {http.StatusBadRequest, codeValidationError},
	validators.ErrInvalidEmail:     {http.StatusBadRequest, codeValidationError},
	validators.ErrInvalidPhone:     {http.StatusBadRequest, codeValidationError},
	validators.ErrNoFieldsToUpdate: {http.StatusBadRequest, codeValidationError},
	validators.ErrNameTooLong:      {http.StatusBadRequest, codeValidationError},
	validators.ErrNotesTooLong:     {http.StatusBadRequest, codeValidationError},

	store.ErrUsernameTaken:   {http.StatusConflict, codeUsernameTaken},
	store.ErrEmailTaken:      {http.StatusConflict, codeEmailTaken},
	store.ErrAccountNotFound: {http.StatusNotFound, codeAccountNotFound},
	store.ErrSessionNotFound: {http.StatusUnauthorized, codeInvalidToken},
	store.ErrMemberNotFound:  {http.StatusNotFound, codeMemberNotFound},

	store.ErrBuildingSQLQuery: {http.StatusInternalServerError, codeInternalServerError},
	store.ErrExecutingQuery:   {http.StatusInternalServerError, codeInternalServerError},
	store.ErrScanningRow:      {http.StatusInternalServerError, codeInternalServerError},
}

// responseFromError maps a service or store error to its HTTP status and
// uniform JSON error body. Unrecognized errors collapse to 500 with no
// detail leaked.
func responseFromError(err error) (int, models.ErrorResponse) {
	var rateLimited *service.RateLimitedError
	if errors.As(err, &rateLimited) {
		return http.StatusTooManyRequests, models.ErrorResponse{
			Code:       codeRateLimitExceeded,
			RetryAfter: int64(rateLimited.RetryAfter.Seconds()),
		}
	}

	for target, mapped := range errorStatusMap {
		if errors.Is(err, target) {
			resp := models.ErrorResponse{Code: mapped.code}
			if mapped.code == codeValidationError {
				resp.Reason = target.Error()
			}
			return mapped.status, resp
		}
	}

	return http.StatusInternalServerError, models.ErrorResponse{Code: codeInternalServerError}
}

// errorBody builds the minimal uniform error payload for code.
func errorBody(code string) models.ErrorResponse {
	return models.ErrorResponse{Code: code}
}

// writeError writes the uniform JSON error body for err.
func writeError(w http.ResponseWriter, err error) {
	status, body := responseFromError(err)
	utils.WriteJSON(w, body, status)
}
