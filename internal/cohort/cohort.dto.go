package cohort

import "time"

type CreateCohortRequest struct {
	Name        string    `json:"name" validate:"required,min=3,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	SkillID     string    `json:"skillId" validate:"omitempty,uuid"`
	Capacity    int       `json:"capacity" validate:"required,min=2,max=50"`
	Weeks       int       `json:"weeks" validate:"required,min=1,max=52"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
}

type CreateSessionRequest struct {
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	ScheduledAt     time.Time `json:"scheduledAt" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,min=15,max=480"`
}

type UpdateSessionRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	ScheduledAt     *time.Time `json:"scheduledAt,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty" validate:"omitempty,min=15,max=480"`
}

// Detail is a cohort together with its current roster.
type Detail struct {
	Cohort
	Status  Status   `json:"status"`
	Members []Member `json:"members,omitempty"`
}
