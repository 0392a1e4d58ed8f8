package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/cohort"
	"skillSwapAPI/internal/store"
)

type CohortService struct {
	cohorts store.Cohorts
	skills  store.Skills
	users   store.Users
	now     func() time.Time
}

func NewCohortService(cohorts store.Cohorts, skills store.Skills, users store.Users) *CohortService {
	return &CohortService{cohorts: cohorts, skills: skills, users: users, now: time.Now}
}

// SetClock overrides the time source used for status and progress.
func (s *CohortService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *CohortService) ListCohorts(ctx context.Context, status cohort.Status) ([]cohort.Detail, error) {
	switch status {
	case "", cohort.StatusUpcoming, cohort.StatusActive, cohort.StatusCompleted:
	default:
		return nil, apperr.Validation("Request validation failed", map[string]any{
			"status": "must be one of [upcoming active completed]",
		})
	}

	cohorts, err := s.cohorts.ListCohorts(ctx)
	if err != nil {
		return nil, storeError("list cohorts", "Cohort", err)
	}

	now := s.now()
	out := make([]cohort.Detail, 0, len(cohorts))
	for _, c := range cohorts {
		st := c.Status(now)
		if status != "" && st != status {
			continue
		}
		out = append(out, cohort.Detail{Cohort: c, Status: st})
	}
	return out, nil
}

// CreateCohort stores the cohort and enrols the creator as facilitator.
func (s *CohortService) CreateCohort(ctx context.Context, userID string, req *cohort.CreateCohortRequest) (*cohort.Detail, error) {
	if err := requireProfile(ctx, s.users, userID); err != nil {
		return nil, err
	}
	if req.SkillID != "" {
		if _, err := s.skills.GetSkill(ctx, req.SkillID); err != nil {
			return nil, storeError("get skill", "Skill", err)
		}
	}

	now := s.now().UTC()
	c := &cohort.Cohort{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		SkillID:       req.SkillID,
		FacilitatorID: userID,
		Capacity:      req.Capacity,
		Weeks:         req.Weeks,
		StartsAt:      req.StartsAt.UTC(),
		CreatedAt:     now,
	}
	facilitator := cohort.Member{CohortID: c.ID, UserID: userID, Role: cohort.RoleFacilitator, JoinedAt: now}
	if err := s.cohorts.CreateCohort(ctx, c, &facilitator); err != nil {
		return nil, storeError("create cohort", "Cohort", err)
	}

	return &cohort.Detail{Cohort: *c, Status: c.Status(now), Members: []cohort.Member{facilitator}}, nil
}

func (s *CohortService) GetCohort(ctx context.Context, id string) (*cohort.Detail, error) {
	c, err := s.getCohort(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.cohorts.ListMembers(ctx, id)
	if err != nil {
		return nil, storeError("list members", "Member", err)
	}
	return &cohort.Detail{Cohort: *c, Status: c.Status(s.now()), Members: members}, nil
}

// JoinCohort checks membership and capacity up front for clear messages;
// the store repeats both checks atomically with the insert.
func (s *CohortService) JoinCohort(ctx context.Context, userID, cohortID string) (*cohort.Member, error) {
	if err := requireProfile(ctx, s.users, userID); err != nil {
		return nil, err
	}
	c, err := s.getCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if c.Status(s.now()) == cohort.StatusCompleted {
		return nil, apperr.Conflict("Cohort has already finished")
	}

	members, err := s.cohorts.ListMembers(ctx, cohortID)
	if err != nil {
		return nil, storeError("list members", "Member", err)
	}
	if cohort.HasMember(members, userID) {
		return nil, apperr.Conflict("You are already a member of this cohort")
	}
	if len(members) >= c.Capacity {
		return nil, apperr.Conflict("Cohort is full")
	}

	m := &cohort.Member{CohortID: cohortID, UserID: userID, Role: cohort.RoleParticipant, JoinedAt: s.now().UTC()}
	if err := s.cohorts.AddMember(ctx, m); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, apperr.Conflict("You are already a member of this cohort")
		case errors.Is(err, store.ErrCapacity):
			return nil, apperr.Conflict("Cohort is full")
		}
		return nil, storeError("add member", "Member", err)
	}
	return m, nil
}

func (s *CohortService) LeaveCohort(ctx context.Context, userID, cohortID string) error {
	c, err := s.getCohort(ctx, cohortID)
	if err != nil {
		return err
	}
	if c.FacilitatorID == userID {
		return apperr.Forbidden("The facilitator cannot leave their own cohort")
	}
	if err := s.cohorts.RemoveMember(ctx, cohortID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("You are not a member of this cohort")
		}
		return storeError("remove member", "Member", err)
	}
	return nil
}

// GetProgress computes completion from the sessions whose start has passed.
func (s *CohortService) GetProgress(ctx context.Context, cohortID string) (*cohort.Progress, error) {
	c, err := s.getCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.cohorts.ListSessions(ctx, cohortID)
	if err != nil {
		return nil, storeError("list sessions", "Session", err)
	}
	p := c.Progress(sessions, s.now())
	return &p, nil
}

func (s *CohortService) ListSessions(ctx context.Context, cohortID string) ([]cohort.Session, error) {
	if _, err := s.getCohort(ctx, cohortID); err != nil {
		return nil, err
	}
	sessions, err := s.cohorts.ListSessions(ctx, cohortID)
	if err != nil {
		return nil, storeError("list sessions", "Session", err)
	}
	return sessions, nil
}

func (s *CohortService) CreateSession(ctx context.Context, userID, cohortID string, req *cohort.CreateSessionRequest) (*cohort.Session, error) {
	if _, err := s.facilitatedCohort(ctx, userID, cohortID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &cohort.Session{
		ID:              uuid.New().String(),
		CohortID:        cohortID,
		Title:           strings.TrimSpace(req.Title),
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.cohorts.CreateSession(ctx, sess); err != nil {
		return nil, storeError("create session", "Session", err)
	}
	return sess, nil
}

func (s *CohortService) UpdateSession(ctx context.Context, userID, sessionID string, req *cohort.UpdateSessionRequest) (*cohort.Session, error) {
	sess, err := s.facilitatedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		sess.Title = strings.TrimSpace(*req.Title)
	}
	if req.ScheduledAt != nil {
		sess.ScheduledAt = req.ScheduledAt.UTC()
	}
	if req.DurationMinutes != nil {
		sess.DurationMinutes = *req.DurationMinutes
	}
	sess.UpdatedAt = s.now().UTC()

	if err := s.cohorts.UpdateSession(ctx, sess); err != nil {
		return nil, storeError("update session", "Session", err)
	}
	return sess, nil
}

func (s *CohortService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if _, err := s.facilitatedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.cohorts.DeleteSession(ctx, sessionID); err != nil {
		return storeError("delete session", "Session", err)
	}
	return nil
}

func (s *CohortService) getCohort(ctx context.Context, id string) (*cohort.Cohort, error) {
	c, err := s.cohorts.GetCohort(ctx, id)
	if err != nil {
		return nil, storeError("get cohort", "Cohort", err)
	}
	return c, nil
}

func (s *CohortService) facilitatedCohort(ctx context.Context, userID, cohortID string) (*cohort.Cohort, error) {
	c, err := s.getCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if c.FacilitatorID != userID {
		return nil, apperr.Forbidden("Only the facilitator can manage sessions")
	}
	return c, nil
}

func (s *CohortService) facilitatedSession(ctx context.Context, userID, sessionID string) (*cohort.Session, error) {
	sess, err := s.cohorts.GetSession(ctx, sessionID)
	if err != nil {
		return nil, storeError("get session", "Session", err)
	}
	if _, err := s.facilitatedCohort(ctx, userID, sess.CohortID); err != nil {
		return nil, err
	}
	return sess, nil
}
