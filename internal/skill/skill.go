package skill

import "time"

type Kind string

const (
	KindTeach Kind = "teach"
	KindLearn Kind = "learn"
)

type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserSkill is a skill a user offers to teach or wants to learn.
type UserSkill struct {
	UserID    string    `json:"userId"`
	SkillID   string    `json:"skillId"`
	SkillName string    `json:"skillName,omitempty"`
	Kind      Kind      `json:"kind"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateSkillRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Category    string `json:"category" validate:"required,min=2,max=60"`
	Description string `json:"description" validate:"max=500"`
}

type AddUserSkillRequest struct {
	SkillID string `json:"skillId" validate:"required,uuid"`
	Kind    Kind   `json:"kind" validate:"required,oneof=teach learn"`
	Level   int    `json:"level" validate:"required,min=1,max=5"`
}
