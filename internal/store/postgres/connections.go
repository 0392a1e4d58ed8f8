package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"skillSwapAPI/internal/connection"
)

const connectionColumns = `id, requester_id, recipient_id, status, message, created_at, responded_at`

func scanConnection(row pgx.Row, c *connection.Connection) error {
	return row.Scan(&c.ID, &c.RequesterID, &c.RecipientID, &c.Status, &c.Message, &c.CreatedAt, &c.RespondedAt)
}

func (s *Store) CreateConnection(ctx context.Context, c *connection.Connection) error {
	query := `
	INSERT INTO connections (id, requester_id, recipient_id, status, message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, query, c.ID, c.RequesterID, c.RecipientID, c.Status, c.Message, c.CreatedAt)
	return translate(err)
}

func (s *Store) GetConnection(ctx context.Context, id string) (*connection.Connection, error) {
	c := &connection.Connection{}
	err := scanConnection(s.db.QueryRow(ctx, `SELECT `+connectionColumns+` FROM connections WHERE id = $1`, id), c)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *Store) UpdateConnectionStatus(ctx context.Context, id string, status connection.Status, at time.Time) error {
	return affected(s.db.Exec(ctx,
		`UPDATE connections SET status = $2, responded_at = $3 WHERE id = $1`,
		id, status, at,
	))
}

func (s *Store) DeleteConnection(ctx context.Context, id string) error {
	return affected(s.db.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id))
}

func (s *Store) ListConnections(ctx context.Context, userID string, status connection.Status) ([]connection.Connection, error) {
	query := `
	SELECT ` + connectionColumns + `
	FROM connections
	WHERE (requester_id = $1 OR recipient_id = $1)
	  AND ($2 = '' OR status = $2)
	ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	out := []connection.Connection{}
	for rows.Next() {
		var c connection.Connection
		if err := scanConnection(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
