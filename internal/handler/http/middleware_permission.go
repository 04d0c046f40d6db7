package http

import (
	"net/http"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/utils"
	"github.com/churchkit/church-ops/models"
)

// requirePermission guards a route group behind a single permission of
// the role permission set. It must run after the auth middleware, which
// puts the account summary in the context.
func (h *Handler) requirePermission(permission models.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			account, ok := utils.GetAccountFromContext(r.Context())
			if !ok {
				writeUnauthorized(w)
				return
			}

			if !account.Role.Can(permission) {
				log.Warn().
					Int64("account_id", account.AccountID).
					Str("role", string(account.Role)).
					Str("permission", string(permission)).
					Msg("permission denied")
				utils.WriteJSON(w, errorBody(codePermissionDenied), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
