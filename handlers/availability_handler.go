package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"skillSwapAPI/internal/availability"
	"skillSwapAPI/services"
)

type AvailabilityHandler struct {
	availabilityService *services.AvailabilityService
	log                 *zap.SugaredLogger
}

func NewAvailabilityHandler(availabilityService *services.AvailabilityService, log *zap.SugaredLogger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		log:                 log,
	}
}

func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	a, err := h.availabilityService.GetAvailability(ctx, id.ID)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

func (h *AvailabilityHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req availability.UpdateAvailabilityRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	a, err := h.availabilityService.UpdateAvailability(ctx, id.ID, &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	h.log.Debugw("availability updated", "user_id", id.ID, "free_hours", a.WeekMask.FreeHours())
	respondWithJSON(w, http.StatusOK, a)
}
