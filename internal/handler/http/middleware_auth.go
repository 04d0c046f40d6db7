package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/utils"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it via [service.SessionService.Validate], and on success stores
// the authenticated account summary under [utils.AccountCtxKey] and the raw
// token under [utils.SessionTokenCtxKey] before delegating to the next
// handler. Validation touches the session's last_accessed_at as a side
// effect.
//
// The middleware rejects requests in the following cases:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader])
//     or cannot be parsed as a bearer token
//     ([ErrInvalidAuthorizationHeader] or [ErrEmptyToken]). These are
//     client mistakes, not revoked credentials, and answer 400.
//   - The session is unknown, expired, or belongs to a deactivated
//     account. Expired and deactivated cases also delete the session.
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			writeError(w, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			writeError(w, err)
			return
		}

		ctx := r.Context()
		_, account, err := h.services.SessionService.Validate(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("session validation failed")
			writeError(w, err)
			return
		}

		// Store the authenticated account and the raw token in the context
		// so downstream handlers can act on the session without re-parsing
		// the header.
		ctx = context.WithValue(ctx, utils.AccountCtxKey, account)
		ctx = context.WithValue(ctx, utils.SessionTokenCtxKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeUnauthorized answers requests whose context lacks an account,
// which can only happen when the permission middleware runs without the
// auth middleware in front of it.
func writeUnauthorized(w http.ResponseWriter) {
	status, body := http.StatusUnauthorized, errorBody(codeInvalidToken)
	utils.WriteJSON(w, body, status)
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: Bearer <token>
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] if the header does not consist of
//     exactly two space-separated parts.
//   - [ErrEmptyToken] if the second part exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authHeader), " ")
	if len(parts) != 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
