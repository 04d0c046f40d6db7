// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, session token
// generation, password-reset token generation and validation, and HTTP
// response writing.
package utils

import (
	"context"

	"github.com/churchkit/church-ops/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// AccountCtxKey is the key used to store the authenticated account
// summary in the context. Used together with GetAccountFromContext for
// type-safe retrieval.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.AccountCtxKey, summary)
var AccountCtxKey = contextKey("account")

// GetAccountFromContext retrieves the authenticated account summary from
// the context.
//
// Returns the summary and an ok flag:
//   - ok == true  — value is found and has the correct type
//   - ok == false — value is missing or has an unexpected type
func GetAccountFromContext(ctx context.Context) (models.AccountSummary, bool) {
	account, ok := ctx.Value(AccountCtxKey).(models.AccountSummary)
	return account, ok
}

// SessionTokenCtxKey is the key used to store the raw bearer token of the
// current request in the context, so handlers like logout and refresh can
// act on the session without re-parsing the header.
var SessionTokenCtxKey = contextKey("sessionToken")

// GetSessionTokenFromContext retrieves the raw bearer token from the
// context.
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenCtxKey).(string)
	return token, ok
}
