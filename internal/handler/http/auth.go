package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
	"github.com/churchkit/church-ops/internal/store"
	"github.com/churchkit/church-ops/internal/utils"
	"github.com/churchkit/church-ops/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, service.ErrInvalidDataProvided)
		return
	}

	account, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		log.Err(err).Msg("registration failed")
		writeError(w, err)
		return
	}

	log.Info().Int64("account_id", account.AccountID).Msg("account registered")
	utils.WriteJSON(w, account.Summary(), http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, service.ErrInvalidDataProvided)
		return
	}

	session, account, err := h.services.AuthService.Login(ctx, req, clientAddr(r))
	if err != nil {
		log.Err(err).Msg("login failed")
		writeError(w, err)
		return
	}

	log.Debug().Int64("account_id", account.AccountID).Msg("user successfully logged in")

	utils.WriteJSON(w, models.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		User:      account,
	}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		writeError(w, service.ErrSessionNotFound)
		return
	}

	if err := h.services.SessionService.Invalidate(ctx, token); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			// The session vanished between middleware validation and
			// here; logout is idempotent from the client's view.
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Err(err).Msg("logout failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		writeError(w, service.ErrSessionNotFound)
		return
	}

	session, err := h.services.AuthService.Refresh(ctx, token)
	if err != nil {
		log.Err(err).Msg("session refresh failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.RefreshResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	account, ok := utils.GetAccountFromContext(ctx)
	if !ok {
		writeError(w, service.ErrSessionNotFound)
		return
	}
	token, ok := utils.GetSessionTokenFromContext(ctx)
	if !ok {
		writeError(w, service.ErrSessionNotFound)
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, service.ErrInvalidDataProvided)
		return
	}

	invalidated, err := h.services.AuthService.ChangePassword(ctx, account.AccountID, token, req)
	if err != nil {
		log.Err(err).Msg("password change failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.ChangePasswordResponse{InvalidatedSessions: invalidated}, http.StatusOK)
}

// resetRequest issues a password-reset token for the given username.
// Unknown usernames get the same 200 as known ones so the endpoint
// cannot be used for enumeration.
func (h *Handler) resetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, service.ErrInvalidDataProvided)
		return
	}

	token, err := h.services.AuthService.RequestPasswordReset(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Err(err).Msg("password reset request failed")
		writeError(w, err)
		return
	}

	// Until mail delivery exists the token is returned directly; the
	// operator forwards it out of band.
	utils.WriteJSON(w, map[string]string{"reset_token": token}, http.StatusOK)
}

func (h *Handler) resetComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, service.ErrInvalidDataProvided)
		return
	}

	if err := h.services.AuthService.CompletePasswordReset(ctx, req.Token, req.NewPassword); err != nil {
		log.Err(err).Msg("password reset completion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
