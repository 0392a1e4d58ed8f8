package postgres

import (
	"context"
	"fmt"

	"skillSwapAPI/internal/referral"
)

func (s *Store) CreateReferral(ctx context.Context, r *referral.Referral) error {
	query := `
	INSERT INTO referrals (id, sender_id, recipient_id, cohort_id, note, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(ctx, query, r.ID, r.SenderID, r.RecipientID, r.CohortID, r.Note, r.Status, r.CreatedAt)
	return translate(err)
}

func (s *Store) ListReferrals(ctx context.Context, userID string) ([]referral.Referral, error) {
	query := `
	SELECT id, sender_id, recipient_id, cohort_id, note, status, created_at
	FROM referrals
	WHERE sender_id = $1 OR recipient_id = $1
	ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	defer rows.Close()

	out := []referral.Referral{}
	for rows.Next() {
		var r referral.Referral
		if err := rows.Scan(&r.ID, &r.SenderID, &r.RecipientID, &r.CohortID, &r.Note, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
