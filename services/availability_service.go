package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/availability"
	"skillSwapAPI/internal/store"
)

type AvailabilityService struct {
	repo store.Availability
}

func NewAvailabilityService(repo store.Availability) *AvailabilityService {
	return &AvailabilityService{repo: repo}
}

// GetAvailability never reports a missing record; users who have not saved
// a schedule get an all-false mask.
func (s *AvailabilityService) GetAvailability(ctx context.Context, userID string) (*availability.Availability, error) {
	a, err := s.repo.GetAvailability(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return availability.Default(userID), nil
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to get availability: %w", err))
	}
	return a, nil
}

// UpdateAvailability replaces the stored mask wholesale.
func (s *AvailabilityService) UpdateAvailability(ctx context.Context, userID string, req *availability.UpdateAvailabilityRequest) (*availability.Availability, error) {
	mask, err := req.Mask()
	if err != nil {
		var slotErr *availability.SlotError
		if errors.As(err, &slotErr) {
			return nil, apperr.Validation("Request validation failed", map[string]any{
				slotErr.Field(): "must not be null",
			})
		}
		return nil, apperr.Validation("Request validation failed", map[string]any{
			"weekMask": fmt.Sprintf("must contain exactly %d items", availability.SlotsPerWeek),
		})
	}

	a := &availability.Availability{
		UserID:    userID,
		WeekMask:  mask,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.UpsertAvailability(ctx, a); err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to save availability: %w", err))
	}
	return a, nil
}
