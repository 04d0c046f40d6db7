package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/service"
	"github.com/churchkit/church-ops/internal/utils"
	"github.com/churchkit/church-ops/models"
)

func memberIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "memberID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidDataProvided
	}
	return id, nil
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var member models.Member
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, service.ErrInvalidDataProvided)
		return
	}

	created, err := h.services.MemberService.CreateMember(ctx, member)
	if err != nil {
		log.Err(err).Msg("member creation failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	memberID, err := memberIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	member, err := h.services.MemberService.GetMember(ctx, memberID)
	if err != nil {
		log.Err(err).Int64("member_id", memberID).Msg("member lookup failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, member, http.StatusOK)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	members, err := h.services.MemberService.ListMembers(ctx)
	if err != nil {
		log.Err(err).Msg("member listing failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, members, http.StatusOK)
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	memberID, err := memberIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var update models.MemberUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, service.ErrInvalidDataProvided)
		return
	}
	update.MemberID = memberID

	if err := h.services.MemberService.UpdateMember(ctx, update); err != nil {
		log.Err(err).Int64("member_id", memberID).Msg("member update failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	memberID, err := memberIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.services.MemberService.DeleteMember(ctx, memberID); err != nil {
		log.Err(err).Int64("member_id", memberID).Msg("member deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
