package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/skill"
	"skillSwapAPI/internal/store"
)

type SkillService struct {
	skills store.Skills
	users  store.Users
}

func NewSkillService(skills store.Skills, users store.Users) *SkillService {
	return &SkillService{skills: skills, users: users}
}

func (s *SkillService) ListSkills(ctx context.Context, category string) ([]skill.Skill, error) {
	skills, err := s.skills.ListSkills(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, storeError("list skills", "Skill", err)
	}
	return skills, nil
}

func (s *SkillService) CreateSkill(ctx context.Context, req *skill.CreateSkillRequest) (*skill.Skill, error) {
	sk := &skill.Skill{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.skills.CreateSkill(ctx, sk); err != nil {
		return nil, storeError("create skill", "Skill", err)
	}
	return sk, nil
}

// AddUserSkill attaches a catalog skill to the caller's profile.
func (s *SkillService) AddUserSkill(ctx context.Context, userID string, req *skill.AddUserSkillRequest) (*skill.UserSkill, error) {
	if err := requireProfile(ctx, s.users, userID); err != nil {
		return nil, err
	}
	sk, err := s.skills.GetSkill(ctx, req.SkillID)
	if err != nil {
		return nil, storeError("get skill", "Skill", err)
	}

	us := &skill.UserSkill{
		UserID:    userID,
		SkillID:   sk.ID,
		SkillName: sk.Name,
		Kind:      req.Kind,
		Level:     req.Level,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.skills.AddUserSkill(ctx, us); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict("Skill is already on your profile")
		}
		return nil, storeError("add user skill", "Skill", err)
	}
	return us, nil
}

func (s *SkillService) RemoveUserSkill(ctx context.Context, userID, skillID string) error {
	if err := s.skills.RemoveUserSkill(ctx, userID, skillID); err != nil {
		return storeError("remove user skill", "Skill", err)
	}
	return nil
}

func (s *SkillService) ListUserSkills(ctx context.Context, userID string) ([]skill.UserSkill, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, storeError("get user", "User", err)
	}
	skills, err := s.skills.ListUserSkills(ctx, userID)
	if err != nil {
		return nil, storeError("list user skills", "Skill", err)
	}
	return skills, nil
}
