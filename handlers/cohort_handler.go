package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillSwapAPI/internal/cohort"
	"skillSwapAPI/services"
)

type CohortHandler struct {
	cohortService *services.CohortService
	log           *zap.SugaredLogger
}

func NewCohortHandler(cohortService *services.CohortService, log *zap.SugaredLogger) *CohortHandler {
	return &CohortHandler{
		cohortService: cohortService,
		log:           log,
	}
}

func (h *CohortHandler) ListCohorts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cohorts, err := h.cohortService.ListCohorts(ctx, cohort.Status(r.URL.Query().Get("status")))
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, cohorts)
}

func (h *CohortHandler) CreateCohort(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req cohort.CreateCohortRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	d, err := h.cohortService.CreateCohort(ctx, id.ID, &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	h.log.Infow("cohort created", "cohort_id", d.ID, "facilitator_id", id.ID)
	respondWithJSON(w, http.StatusCreated, d)
}

func (h *CohortHandler) GetCohort(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d, err := h.cohortService.GetCohort(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, d)
}

func (h *CohortHandler) JoinCohort(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	m, err := h.cohortService.JoinCohort(ctx, id.ID, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, m)
}

func (h *CohortHandler) LeaveCohort(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	if err := h.cohortService.LeaveCohort(ctx, id.ID, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CohortHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.cohortService.GetProgress(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *CohortHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.cohortService.ListSessions(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sessions)
}

func (h *CohortHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req cohort.CreateSessionRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	s, err := h.cohortService.CreateSession(ctx, id.ID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, s)
}

func (h *CohortHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req cohort.UpdateSessionRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	s, err := h.cohortService.UpdateSession(ctx, id.ID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, s)
}

func (h *CohortHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	if err := h.cohortService.DeleteSession(ctx, id.ID, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
