package postgres

import (
	"context"

	"skillSwapAPI/internal/availability"
)

func (s *Store) GetAvailability(ctx context.Context, userID string) (*availability.Availability, error) {
	a := &availability.Availability{UserID: userID}
	var mask []bool
	err := s.db.QueryRow(ctx,
		`SELECT week_mask, updated_at FROM weekly_availability WHERE user_id = $1`,
		userID,
	).Scan(&mask, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	a.WeekMask = mask
	return a, nil
}

// UpsertAvailability is a single statement; the row is replaced wholesale.
func (s *Store) UpsertAvailability(ctx context.Context, a *availability.Availability) error {
	query := `
	INSERT INTO weekly_availability (user_id, week_mask, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO UPDATE
	SET week_mask = EXCLUDED.week_mask, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.Exec(ctx, query, a.UserID, []bool(a.WeekMask), a.UpdatedAt)
	return translate(err)
}
