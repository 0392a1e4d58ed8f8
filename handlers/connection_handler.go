package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillSwapAPI/internal/connection"
	"skillSwapAPI/services"
)

type ConnectionHandler struct {
	connectionService *services.ConnectionService
	log               *zap.SugaredLogger
}

func NewConnectionHandler(connectionService *services.ConnectionService, log *zap.SugaredLogger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		log:               log,
	}
}

func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	status := connection.Status(r.URL.Query().Get("status"))
	conns, err := h.connectionService.ListConnections(ctx, id.ID, status)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, conns)
}

func (h *ConnectionHandler) RequestConnection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req connection.CreateConnectionRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	c, err := h.connectionService.RequestConnection(ctx, id.ID, &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, c)
}

func (h *ConnectionHandler) RespondToConnection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	var req connection.RespondConnectionRequest
	if err := decodeRequest(r, &req); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	c, err := h.connectionService.RespondToConnection(ctx, id.ID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *ConnectionHandler) RemoveConnection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := caller(r)
	if err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	if err := h.connectionService.RemoveConnection(ctx, id.ID, mux.Vars(r)["id"]); err != nil {
		respondWithError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
