package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"skillSwapAPI/internal/apperr"
)

// NotImplemented answers routes whose feature has no backing service yet.
func NotImplemented(feature string, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, log, apperr.NotImplemented(feature))
	}
}
