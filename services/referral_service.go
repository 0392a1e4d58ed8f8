package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/referral"
	"skillSwapAPI/internal/store"
)

type ReferralService struct {
	cohorts   store.Cohorts
	referrals store.Referrals
	now       func() time.Time
}

func NewReferralService(cohorts store.Cohorts, referrals store.Referrals) *ReferralService {
	return &ReferralService{cohorts: cohorts, referrals: referrals, now: time.Now}
}

// SetClock overrides the time source used to decide which sessions elapsed.
func (s *ReferralService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateReferral runs the eligibility gate against freshly loaded cohort
// data and stores the referral only when it passes.
func (s *ReferralService) CreateReferral(ctx context.Context, senderID string, req *referral.CreateReferralRequest) (*referral.Referral, error) {
	c, err := s.cohorts.GetCohort(ctx, req.CohortID)
	if err != nil {
		return nil, storeError("get cohort", "Cohort", err)
	}
	members, err := s.cohorts.ListMembers(ctx, c.ID)
	if err != nil {
		return nil, storeError("list members", "Member", err)
	}
	sessions, err := s.cohorts.ListSessions(ctx, c.ID)
	if err != nil {
		return nil, storeError("list sessions", "Session", err)
	}

	now := s.now()
	if err := referral.CheckEligibility(senderID, req.RecipientID, members, c.Progress(sessions, now)); err != nil {
		return nil, err
	}

	r := &referral.Referral{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		CohortID:    c.ID,
		Note:        strings.TrimSpace(req.Note),
		Status:      referral.StatusPending,
		CreatedAt:   now.UTC(),
	}
	if err := s.referrals.CreateReferral(ctx, r); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict("You have already referred this member for this cohort")
		}
		return nil, storeError("create referral", "Referral", err)
	}
	return r, nil
}

// ListReferrals returns referrals the user sent or received.
func (s *ReferralService) ListReferrals(ctx context.Context, userID string) ([]referral.Referral, error) {
	refs, err := s.referrals.ListReferrals(ctx, userID)
	if err != nil {
		return nil, storeError("list referrals", "Referral", err)
	}
	return refs, nil
}
