package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"skillSwapAPI/internal/user"
)

const userColumns = `id, email, display_name, headline, bio, location, timezone, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.Headline,
		&u.Bio,
		&u.Location,
		&u.Timezone,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
	INSERT INTO users (` + userColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.Exec(ctx, query,
		u.ID, u.Email, u.DisplayName, u.Headline, u.Bio, u.Location, u.Timezone, u.AvatarURL, u.CreatedAt, u.UpdatedAt,
	)
	return translate(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u := &user.User{}
	if err := scanUser(s.db.QueryRow(ctx, query, id), u); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	query := `
	UPDATE users
	SET display_name = $2, headline = $3, bio = $4, location = $5, timezone = $6, avatar_url = $7, updated_at = $8
	WHERE id = $1
	`
	return affected(s.db.Exec(ctx, query,
		u.ID, u.DisplayName, u.Headline, u.Bio, u.Location, u.Timezone, u.AvatarURL, u.UpdatedAt,
	))
}

func (s *Store) ListUsers(ctx context.Context, f user.ListFilter) ([]user.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM users
	WHERE $1 = '' OR display_name ILIKE '%' || $1 || '%' OR headline ILIKE '%' || $1 || '%'
	ORDER BY created_at, id
	LIMIT NULLIF($2, 0) OFFSET $3
	`
	rows, err := s.db.Query(ctx, query, f.Query, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		var u user.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
