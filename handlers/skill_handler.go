package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/skill"
	"skillSwapAPI/services"
)

type SkillHandler struct {
	skillService *services.SkillService
	log          *zap.SugaredLogger
}

func NewSkillHandler(skillService *services.SkillService, log *zap.SugaredLogger) *SkillHandler {
	return &SkillHandler{
		skillService: skillService,
		log:          log,
	}
}

func (h *SkillHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skills, err := h.skillService.ListSkills(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, skills)
}

// CreateSkill adds to the shared catalog. Admins only.
func (h *SkillHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}
	if !id.IsAdmin() {
		respondWithError(w, r, h.log, apperr.Forbidden("Only administrators can add skills to the catalog"))
		return
	}

	var req skill.CreateSkillRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	sk, err := h.skillService.CreateSkill(ctx, &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sk)
}

func (h *SkillHandler) ListUserSkills(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skills, err := h.skillService.ListUserSkills(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, skills)
}

func (h *SkillHandler) AddMySkill(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req skill.AddUserSkillRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	us, err := h.skillService.AddUserSkill(ctx, id.ID, &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, us)
}

func (h *SkillHandler) RemoveMySkill(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	if err := h.skillService.RemoveUserSkill(ctx, id.ID, mux.Vars(r)["skillId"]); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
