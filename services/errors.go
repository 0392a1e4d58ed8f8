package services

import (
	"errors"
	"fmt"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/store"
)

// storeError maps persistence errors onto the API taxonomy. what names the
// resource in client-facing messages; op names the operation in logs.
func storeError(op, what string, err error) error {
	var appErr *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, store.ErrConflict):
		return apperr.Conflict(what + " already exists")
	default:
		return apperr.Internal(fmt.Errorf("failed to %s: %w", op, err))
	}
}
