package cohort

import (
	"math"
	"time"
)

// ReferralThreshold is the completion percentage members must reach before
// they may refer one another.
const ReferralThreshold = 75

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type MemberRole string

const (
	RoleFacilitator MemberRole = "facilitator"
	RoleParticipant MemberRole = "participant"
)

type Cohort struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	SkillID       string    `json:"skillId,omitempty"`
	FacilitatorID string    `json:"facilitatorId"`
	Capacity      int       `json:"capacity"`
	Weeks         int       `json:"weeks"`
	StartsAt      time.Time `json:"startsAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Member struct {
	CohortID string     `json:"cohortId"`
	UserID   string     `json:"userId"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joinedAt"`
}

type Session struct {
	ID              string    `json:"id"`
	CohortID        string    `json:"cohortId"`
	Title           string    `json:"title"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Progress is computed on demand and never stored.
type Progress struct {
	CohortID             string `json:"cohortId"`
	CompletedSessions    int    `json:"completedSessions"`
	PlannedSessions      int    `json:"plannedSessions"`
	CompletionPercentage int    `json:"completionPercentage"`
	ReferralEligible     bool   `json:"referralEligible"`
}

// EndsAt is the end of the last planned week.
func (c *Cohort) EndsAt() time.Time {
	return c.StartsAt.AddDate(0, 0, 7*c.Weeks)
}

func (c *Cohort) Status(now time.Time) Status {
	switch {
	case now.Before(c.StartsAt):
		return StatusUpcoming
	case now.Before(c.EndsAt()):
		return StatusActive
	default:
		return StatusCompleted
	}
}

// ElapsedSessions counts sessions whose scheduled start is not in the future.
func ElapsedSessions(sessions []Session, now time.Time) int {
	n := 0
	for _, s := range sessions {
		if !s.ScheduledAt.After(now) {
			n++
		}
	}
	return n
}

// CompletionPercentage is elapsed/planned rounded to an integer and clamped
// to 0..100. A cohort with no planned sessions is 0% complete.
func CompletionPercentage(elapsed, planned int) int {
	if planned <= 0 || elapsed <= 0 {
		return 0
	}
	pct := int(math.Round(float64(elapsed) * 100 / float64(planned)))
	if pct > 100 {
		return 100
	}
	return pct
}

func IsReferralEligible(completionPercentage int) bool {
	return completionPercentage >= ReferralThreshold
}

func (c *Cohort) Progress(sessions []Session, now time.Time) Progress {
	elapsed := ElapsedSessions(sessions, now)
	pct := CompletionPercentage(elapsed, c.Weeks)
	return Progress{
		CohortID:             c.ID,
		CompletedSessions:    elapsed,
		PlannedSessions:      c.Weeks,
		CompletionPercentage: pct,
		ReferralEligible:     IsReferralEligible(pct),
	}
}

// HasMember reports whether userID appears in members.
func HasMember(members []Member, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
