package postgres

import (
	"context"
	"fmt"

	"skillSwapAPI/internal/skill"
)

func (s *Store) CreateSkill(ctx context.Context, sk *skill.Skill) error {
	query := `
	INSERT INTO skills (id, name, category, description, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query, sk.ID, sk.Name, sk.Category, sk.Description, sk.CreatedAt)
	return translate(err)
}

func (s *Store) GetSkill(ctx context.Context, id string) (*skill.Skill, error) {
	query := `SELECT id, name, category, description, created_at FROM skills WHERE id = $1`

	sk := &skill.Skill{}
	err := s.db.QueryRow(ctx, query, id).Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Description, &sk.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return sk, nil
}

func (s *Store) ListSkills(ctx context.Context, category string) ([]skill.Skill, error) {
	query := `
	SELECT id, name, category, description, created_at
	FROM skills
	WHERE $1 = '' OR lower(category) = lower($1)
	ORDER BY name
	`
	rows, err := s.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	skills := []skill.Skill{}
	for rows.Next() {
		var sk skill.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Category, &sk.Description, &sk.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

func (s *Store) AddUserSkill(ctx context.Context, us *skill.UserSkill) error {
	query := `
	INSERT INTO user_skills (user_id, skill_id, kind, level, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query, us.UserID, us.SkillID, us.Kind, us.Level, us.CreatedAt)
	return translate(err)
}

func (s *Store) RemoveUserSkill(ctx context.Context, userID, skillID string) error {
	return affected(s.db.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1 AND skill_id = $2`, userID, skillID))
}

func (s *Store) ListUserSkills(ctx context.Context, userID string) ([]skill.UserSkill, error) {
	query := `
	SELECT us.user_id, us.skill_id, sk.name, us.kind, us.level, us.created_at
	FROM user_skills us
	JOIN skills sk ON sk.id = us.skill_id
	WHERE us.user_id = $1
	ORDER BY us.created_at
	`
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user skills: %w", err)
	}
	defer rows.Close()

	out := []skill.UserSkill{}
	for rows.Next() {
		var us skill.UserSkill
		if err := rows.Scan(&us.UserID, &us.SkillID, &us.SkillName, &us.Kind, &us.Level, &us.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user skill: %w", err)
		}
		out = append(out, us)
	}
	return out, rows.Err()
}
