// Package respond writes JSON bodies and the shared error envelope.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"skillSwapAPI/internal/apperr"
)

// ErrorBody is the wire envelope for every failed request.
type ErrorBody struct {
	Code    apperr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":"INTERNAL_ERROR","message":"An unexpected error occurred"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error renders err using the taxonomy. Internal failures are logged with
// the request path, method and cause; the client only sees the generic
// message.
func Error(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal && log != nil {
		log.Errorw("request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"error", appErr.Err,
		)
	}
	JSON(w, appErr.Status(), ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
