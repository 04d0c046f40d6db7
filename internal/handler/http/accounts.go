package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
	"github.com/churchkit/church-ops/models"
)

// accountIDParam parses the {accountID} URL parameter.
func accountIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidDataProvided
	}
	return id, nil
}

// reactivateAccount is the administrative unlock: the account becomes
// active again and its failed-attempt counter resets to zero.
func (h *Handler) reactivateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.services.AuthService.Reactivate(ctx, accountID); err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("account reactivation failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// deactivateAccount disables an account and revokes all of its sessions.
func (h *Handler) deactivateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.services.AuthService.Deactivate(ctx, accountID); err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("account deactivation failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// changeAccountRole assigns a new role and revokes the account's
// sessions so no live session keeps the old permission set.
func (h *Handler) changeAccountRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, err := accountIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.AuthService.ChangeRole(ctx, accountID, req.Role); err != nil {
		log.Err(err).Int64("account_id", accountID).Msg("role change failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
