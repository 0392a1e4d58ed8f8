package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"skillSwapAPI/internal/apperr"
)

func TestError_InternalIsSanitizedAndLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core).Sugar()

	req := httptest.NewRequest(http.MethodPut, "/v1/availability", nil)
	rr := httptest.NewRecorder()

	Error(rr, req, log, errors.New("pq: relation \"weekly_availability\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "weekly_availability")

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeInternal, body.Code)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/v1/availability", fields["path"])
	assert.Equal(t, http.MethodPut, fields["method"])
}

func TestError_ClientErrorsAreNotLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core).Sugar()

	req := httptest.NewRequest(http.MethodGet, "/v1/cohorts/x", nil)
	rr := httptest.NewRecorder()

	Error(rr, req, log, apperr.NotFound("Cohort not found"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, logs.Len())
	assert.JSONEq(t, `{"code":"NOT_FOUND","message":"Cohort not found"}`, rr.Body.String())
}

func TestError_DetailsAreRendered(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/referrals", nil)
	rr := httptest.NewRecorder()

	Error(rr, req, nil, apperr.Validation("Request validation failed", map[string]any{"cohortId": "is required"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"code":"VALIDATION_ERROR","message":"Request validation failed","details":{"cohortId":"is required"}}`, rr.Body.String())
}
