package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/auth"
	"skillSwapAPI/internal/respond"
	"skillSwapAPI/internal/validation"
	"skillSwapAPI/middleware"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	respond.JSON(w, code, payload)
}

func respondWithError(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	respond.Error(w, r, log, err)
}

// decodeRequest reads the JSON body into dst and checks its contract.
func decodeRequest(r *http.Request, dst any) error {
	return validation.DecodeJSON(r.Body, dst)
}

// caller returns the identity the auth middleware attached.
func caller(r *http.Request) (*auth.Identity, error) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validation("Request validation failed", map[string]any{
			name: "must be a non-negative integer",
		})
	}
	return n, nil
}
