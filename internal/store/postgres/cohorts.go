package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"skillSwapAPI/internal/cohort"
	"skillSwapAPI/internal/store"
)

const insertMember = `INSERT INTO cohort_members (cohort_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`

const cohortColumns = `id, name, description, COALESCE(skill_id::text, ''), facilitator_id, capacity, weeks, starts_at, created_at`

func scanCohort(row pgx.Row, c *cohort.Cohort) error {
	return row.Scan(&c.ID, &c.Name, &c.Description, &c.SkillID, &c.FacilitatorID, &c.Capacity, &c.Weeks, &c.StartsAt, &c.CreatedAt)
}

func (s *Store) CreateCohort(ctx context.Context, c *cohort.Cohort, facilitator *cohort.Member) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO cohorts (id, name, description, skill_id, facilitator_id, capacity, weeks, starts_at, created_at)
	VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9)
	`, c.ID, c.Name, c.Description, c.SkillID, c.FacilitatorID, c.Capacity, c.Weeks, c.StartsAt, c.CreatedAt)
	if err != nil {
		return translate(err)
	}

	if _, err := tx.Exec(ctx, insertMember, facilitator.CohortID, facilitator.UserID, facilitator.Role, facilitator.JoinedAt); err != nil {
		return translate(err)
	}

	return tx.Commit(ctx)
}

func (s *Store) GetCohort(ctx context.Context, id string) (*cohort.Cohort, error) {
	c := &cohort.Cohort{}
	if err := scanCohort(s.db.QueryRow(ctx, `SELECT `+cohortColumns+` FROM cohorts WHERE id = $1`, id), c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *Store) ListCohorts(ctx context.Context) ([]cohort.Cohort, error) {
	rows, err := s.db.Query(ctx, `SELECT `+cohortColumns+` FROM cohorts ORDER BY starts_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cohorts: %w", err)
	}
	defer rows.Close()

	out := []cohort.Cohort{}
	for rows.Next() {
		var c cohort.Cohort
		if err := scanCohort(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan cohort: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddMember locks the cohort row so concurrent joins cannot overfill it.
func (s *Store) AddMember(ctx context.Context, m *cohort.Member) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var capacity int
	if err := tx.QueryRow(ctx, `SELECT capacity FROM cohorts WHERE id = $1 FOR UPDATE`, m.CohortID).Scan(&capacity); err != nil {
		return translate(err)
	}

	var seated int
	var member bool
	err = tx.QueryRow(ctx, `
	SELECT count(*), COALESCE(bool_or(user_id = $2), false)
	FROM cohort_members
	WHERE cohort_id = $1
	`, m.CohortID, m.UserID).Scan(&seated, &member)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if member {
		return store.ErrConflict
	}
	if seated >= capacity {
		return store.ErrCapacity
	}

	if _, err := tx.Exec(ctx, insertMember, m.CohortID, m.UserID, m.Role, m.JoinedAt); err != nil {
		return translate(err)
	}

	return tx.Commit(ctx)
}

func (s *Store) RemoveMember(ctx context.Context, cohortID, userID string) error {
	return affected(s.db.Exec(ctx, `DELETE FROM cohort_members WHERE cohort_id = $1 AND user_id = $2`, cohortID, userID))
}

func (s *Store) ListMembers(ctx context.Context, cohortID string) ([]cohort.Member, error) {
	rows, err := s.db.Query(ctx, `
	SELECT cohort_id, user_id, role, joined_at
	FROM cohort_members
	WHERE cohort_id = $1
	ORDER BY joined_at
	`, cohortID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cohort members: %w", err)
	}
	defer rows.Close()

	out := []cohort.Member{}
	for rows.Next() {
		var m cohort.Member
		if err := rows.Scan(&m.CohortID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cohort member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const sessionColumns = `id, cohort_id, title, scheduled_at, duration_minutes, created_at, updated_at`

func scanSession(row pgx.Row, cs *cohort.Session) error {
	return row.Scan(&cs.ID, &cs.CohortID, &cs.Title, &cs.ScheduledAt, &cs.DurationMinutes, &cs.CreatedAt, &cs.UpdatedAt)
}

func (s *Store) CreateSession(ctx context.Context, cs *cohort.Session) error {
	query := `
	INSERT INTO cohort_sessions (` + sessionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(ctx, query, cs.ID, cs.CohortID, cs.Title, cs.ScheduledAt, cs.DurationMinutes, cs.CreatedAt, cs.UpdatedAt)
	return translate(err)
}

func (s *Store) GetSession(ctx context.Context, id string) (*cohort.Session, error) {
	cs := &cohort.Session{}
	if err := scanSession(s.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM cohort_sessions WHERE id = $1`, id), cs); err != nil {
		return nil, translate(err)
	}
	return cs, nil
}

func (s *Store) UpdateSession(ctx context.Context, cs *cohort.Session) error {
	return affected(s.db.Exec(ctx, `
	UPDATE cohort_sessions
	SET title = $2, scheduled_at = $3, duration_minutes = $4, updated_at = $5
	WHERE id = $1
	`, cs.ID, cs.Title, cs.ScheduledAt, cs.DurationMinutes, cs.UpdatedAt))
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return affected(s.db.Exec(ctx, `DELETE FROM cohort_sessions WHERE id = $1`, id))
}

func (s *Store) ListSessions(ctx context.Context, cohortID string) ([]cohort.Session, error) {
	rows, err := s.db.Query(ctx, `SELECT `+sessionColumns+` FROM cohort_sessions WHERE cohort_id = $1 ORDER BY scheduled_at`, cohortID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	out := []cohort.Session{}
	for rows.Next() {
		var cs cohort.Session
		if err := scanSession(rows, &cs); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}
