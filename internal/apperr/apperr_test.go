package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeNotImplemented, http.StatusNotImplemented},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.status, New(tc.code, "x").Status())
		})
	}
}

func TestFrom_WrappedAppErrorSurvives(t *testing.T) {
	wrapped := fmt.Errorf("service layer: %w", Forbidden("not yours"))

	got := From(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, CodeForbidden, got.Code)
	assert.Equal(t, "not yours", got.Message)
	assert.True(t, Is(wrapped, CodeForbidden))
}

func TestFrom_UnknownErrorBecomesInternal(t *testing.T) {
	cause := errors.New("connection reset by peer")

	got := From(cause)
	assert.Equal(t, CodeInternal, got.Code)
	assert.NotContains(t, got.Message, "connection reset")
	assert.ErrorIs(t, got, cause)
}

func TestFrom_Nil(t *testing.T) {
	assert.Nil(t, From(nil))
}
