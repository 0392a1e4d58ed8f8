package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/cohort"
	"skillSwapAPI/internal/skill"
	"skillSwapAPI/internal/store/memory"
)

// newCohortService seeds the profiles the tests act as.
func newCohortService(t *testing.T, db *memory.DB) *CohortService {
	t.Helper()
	for _, id := range []string{"alice", "bob", "carol", "a", "b"} {
		ensureUser(t, db, id)
	}
	svc := NewCohortService(db, db, db)
	svc.SetClock(fixedClock)
	return svc
}

func TestCohortService_CreateEnrolsFacilitator(t *testing.T) {
	db := memory.New()
	svc := newCohortService(t, db)
	ctx := context.Background()

	d, err := svc.CreateCohort(ctx, "alice", &cohort.CreateCohortRequest{
		Name:     "  Distributed systems  ",
		Capacity: 3,
		Weeks:    6,
		StartsAt: testNow.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Distributed systems", d.Name)
	assert.Equal(t, "alice", d.FacilitatorID)
	assert.Equal(t, cohort.StatusUpcoming, d.Status)
	require.Len(t, d.Members, 1)
	assert.Equal(t, cohort.RoleFacilitator, d.Members[0].Role)

	got, err := svc.GetCohort(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)
}

func TestCohortService_CreateChecksSkill(t *testing.T) {
	db := memory.New()
	svc := newCohortService(t, db)
	ctx := context.Background()

	_, err := svc.CreateCohort(ctx, "alice", &cohort.CreateCohortRequest{
		Name: "Rust", Capacity: 5, Weeks: 4, StartsAt: testNow,
		SkillID: "6b1c7c57-3d4e-4a8e-9d64-6f6d7a2b0c11",
	})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	require.NoError(t, db.CreateSkill(ctx, &skill.Skill{ID: "6b1c7c57-3d4e-4a8e-9d64-6f6d7a2b0c11", Name: "Rust", Category: "programming"}))
	d, err := svc.CreateCohort(ctx, "alice", &cohort.CreateCohortRequest{
		Name: "Rust", Capacity: 5, Weeks: 4, StartsAt: testNow,
		SkillID: "6b1c7c57-3d4e-4a8e-9d64-6f6d7a2b0c11",
	})
	require.NoError(t, err)
	assert.Equal(t, "6b1c7c57-3d4e-4a8e-9d64-6f6d7a2b0c11", d.SkillID)
}

func TestCohortService_JoinAndLeave(t *testing.T) {
	db := memory.New()
	svc := newCohortService(t, db)
	ctx := context.Background()

	d, err := svc.CreateCohort(ctx, "alice", &cohort.CreateCohortRequest{Name: "Pairs", Capacity: 2, Weeks: 2, StartsAt: testNow})
	require.NoError(t, err)

	m, err := svc.JoinCohort(ctx, "bob", d.ID)
	require.NoError(t, err)
	assert.Equal(t, cohort.RoleParticipant, m.Role)

	_, err = svc.JoinCohort(ctx, "bob", d.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))

	_, err = svc.JoinCohort(ctx, "carol", d.ID)
	require.True(t, apperr.Is(err, apperr.CodeConflict))
	assert.Equal(t, "Cohort is full", apperr.From(err).Message)

	assert.True(t, apperr.Is(svc.LeaveCohort(ctx, "alice", d.ID), apperr.CodeForbidden))
	require.NoError(t, svc.LeaveCohort(ctx, "bob", d.ID))
	assert.True(t, apperr.Is(svc.LeaveCohort(ctx, "bob", d.ID), apperr.CodeNotFound))

	_, err = svc.JoinCohort(ctx, "carol", d.ID)
	assert.NoError(t, err)
}

func TestCohortService_JoinFinishedCohort(t *testing.T) {
	db := memory.New()
	c := seedCohort(t, db, 2, 3, "alice")
	svc := newCohortService(t, db)

	_, err := svc.JoinCohort(context.Background(), "bob", c.ID)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestCohortService_Progress(t *testing.T) {
	db := memory.New()
	c := seedCohort(t, db, 5, 3, "alice", "bob")
	svc := newCohortService(t, db)

	p, err := svc.GetProgress(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, cohort.Progress{
		CohortID:             c.ID,
		CompletedSessions:    3,
		PlannedSessions:      5,
		CompletionPercentage: 60,
		ReferralEligible:     false,
	}, *p)

	svc.SetClock(func() time.Time { return testNow.AddDate(0, 0, 7) })
	p, err = svc.GetProgress(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, p.CompletionPercentage)
	assert.True(t, p.ReferralEligible)
}

func TestCohortService_ListFiltersByStatus(t *testing.T) {
	db := memory.New()
	svc := newCohortService(t, db)
	ctx := context.Background()

	_, err := svc.CreateCohort(ctx, "a", &cohort.CreateCohortRequest{Name: "Later", Capacity: 5, Weeks: 4, StartsAt: testNow.AddDate(0, 1, 0)})
	require.NoError(t, err)
	_, err = svc.CreateCohort(ctx, "b", &cohort.CreateCohortRequest{Name: "Now", Capacity: 5, Weeks: 4, StartsAt: testNow.AddDate(0, 0, -7)})
	require.NoError(t, err)

	all, err := svc.ListCohorts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListCohorts(ctx, cohort.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Now", active[0].Name)
	assert.Empty(t, active[0].Members)

	_, err = svc.ListCohorts(ctx, "archived")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestCohortService_SessionsAreFacilitatorOnly(t *testing.T) {
	db := memory.New()
	svc := newCohortService(t, db)
	ctx := context.Background()

	d, err := svc.CreateCohort(ctx, "alice", &cohort.CreateCohortRequest{Name: "Go", Capacity: 5, Weeks: 4, StartsAt: testNow})
	require.NoError(t, err)
	_, err = svc.JoinCohort(ctx, "bob", d.ID)
	require.NoError(t, err)

	req := &cohort.CreateSessionRequest{Title: "Kickoff", ScheduledAt: testNow.Add(time.Hour), DurationMinutes: 60}
	_, err = svc.CreateSession(ctx, "bob", d.ID, req)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	sess, err := svc.CreateSession(ctx, "alice", d.ID, req)
	require.NoError(t, err)

	title := "Kickoff (moved)"
	at := testNow.Add(-time.Hour)
	_, err = svc.UpdateSession(ctx, "bob", sess.ID, &cohort.UpdateSessionRequest{Title: &title})
	assert.True(t, apperr.Is(err, apperr.CodeForbidden))

	updated, err := svc.UpdateSession(ctx, "alice", sess.ID, &cohort.UpdateSessionRequest{Title: &title, ScheduledAt: &at})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, 60, updated.DurationMinutes)

	// Rescheduling into the past counts the session as elapsed.
	p, err := svc.GetProgress(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedSessions)
	assert.Equal(t, 25, p.CompletionPercentage)

	assert.True(t, apperr.Is(svc.DeleteSession(ctx, "bob", sess.ID), apperr.CodeForbidden))
	require.NoError(t, svc.DeleteSession(ctx, "alice", sess.ID))
	assert.True(t, apperr.Is(svc.DeleteSession(ctx, "alice", sess.ID), apperr.CodeNotFound))

	sessions, err := svc.ListSessions(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = svc.ListSessions(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestCohortService_RequiresProfile(t *testing.T) {
	db := memory.New()
	svc := newCohortService(t, db)
	ctx := context.Background()

	_, err := svc.CreateCohort(ctx, "nobody", &cohort.CreateCohortRequest{Name: "Go", Capacity: 5, Weeks: 4, StartsAt: testNow})
	require.True(t, apperr.Is(err, apperr.CodeForbidden), "got %v", err)
	assert.Equal(t, "Create your profile first", apperr.From(err).Message)

	all, err := svc.ListCohorts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "no cohort may be left behind")

	d, err := svc.CreateCohort(ctx, "alice", &cohort.CreateCohortRequest{Name: "Go", Capacity: 5, Weeks: 4, StartsAt: testNow})
	require.NoError(t, err)

	_, err = svc.JoinCohort(ctx, "nobody", d.ID)
	assert.True(t, apperr.Is(err, apperr.CodeForbidden), "got %v", err)
}

// seatTakingStore fills the last seat between the service's capacity check
// and its insert, the way a concurrent join would.
type seatTakingStore struct {
	*memory.DB
	rival string
}

func (s seatTakingStore) AddMember(ctx context.Context, m *cohort.Member) error {
	rival := *m
	rival.UserID = s.rival
	if err := s.DB.AddMember(ctx, &rival); err != nil {
		return err
	}
	return s.DB.AddMember(ctx, m)
}

func TestCohortService_JoinLosesRaceForLastSeat(t *testing.T) {
	db := memory.New()
	ensureUser(t, db, "alice")
	ensureUser(t, db, "bob")
	ensureUser(t, db, "carol")

	racy := seatTakingStore{DB: db, rival: "carol"}
	svc := NewCohortService(racy, db, db)
	svc.SetClock(fixedClock)
	ctx := context.Background()

	d, err := svc.CreateCohort(ctx, "alice", &cohort.CreateCohortRequest{Name: "Pairs", Capacity: 2, Weeks: 2, StartsAt: testNow})
	require.NoError(t, err)

	_, err = svc.JoinCohort(ctx, "bob", d.ID)
	require.True(t, apperr.Is(err, apperr.CodeConflict), "got %v", err)
	assert.Equal(t, "Cohort is full", apperr.From(err).Message)

	members, err := db.ListMembers(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}
