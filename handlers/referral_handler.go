package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/referral"
	"skillSwapAPI/services"
)

type ReferralHandler struct {
	referralService *services.ReferralService
	log             *zap.SugaredLogger
}

func NewReferralHandler(referralService *services.ReferralService, log *zap.SugaredLogger) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		log:             log,
	}
}

func (h *ReferralHandler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	refs, err := h.referralService.ListReferrals(ctx, id.ID)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, refs)
}

func (h *ReferralHandler) CreateReferral(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req referral.CreateReferralRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	ref, err := h.referralService.CreateReferral(ctx, id.ID, &req)
	if err != nil {
		if apperr.Is(err, apperr.CodeForbidden) {
			h.log.Infow("referral rejected", "sender_id", id.ID, "cohort_id", req.CohortID, "reason", apperr.From(err).Message)
		}
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, ref)
}
