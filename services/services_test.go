package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skillSwapAPI/internal/cohort"
	"skillSwapAPI/internal/store/memory"
	"skillSwapAPI/internal/user"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func seedUser(t *testing.T, db *memory.DB, id string) {
	t.Helper()
	require.NoError(t, db.CreateUser(context.Background(), &user.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: "User " + id,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}))
}

// ensureUser seeds id unless a profile already exists.
func ensureUser(t *testing.T, db *memory.DB, id string) {
	t.Helper()
	if _, err := db.GetUser(context.Background(), id); err == nil {
		return
	}
	seedUser(t, db, id)
}

// seedCohort creates a cohort of the given length with the facilitator and
// participants enrolled and the first `elapsed` weekly sessions in the past.
func seedCohort(t *testing.T, db *memory.DB, weeks, elapsed int, facilitator string, participants ...string) *cohort.Cohort {
	t.Helper()
	ctx := context.Background()

	ensureUser(t, db, facilitator)
	for _, p := range participants {
		ensureUser(t, db, p)
	}

	start := testNow.AddDate(0, 0, -7*elapsed).Add(-time.Hour)
	c := &cohort.Cohort{
		ID:            "cohort-" + facilitator,
		Name:          "Go in practice",
		FacilitatorID: facilitator,
		Capacity:      10,
		Weeks:         weeks,
		StartsAt:      start,
		CreatedAt:     start,
	}
	require.NoError(t, db.CreateCohort(ctx, c, &cohort.Member{CohortID: c.ID, UserID: facilitator, Role: cohort.RoleFacilitator, JoinedAt: start}))
	for _, p := range participants {
		require.NoError(t, db.AddMember(ctx, &cohort.Member{CohortID: c.ID, UserID: p, Role: cohort.RoleParticipant, JoinedAt: start}))
	}
	for i := 0; i < weeks; i++ {
		at := testNow.AddDate(0, 0, -7*(elapsed-i))
		if i >= elapsed {
			at = testNow.AddDate(0, 0, 7*(i-elapsed)).Add(time.Hour)
		}
		require.NoError(t, db.CreateSession(ctx, &cohort.Session{
			ID:              fmt.Sprintf("%s-s%d", c.ID, i),
			CohortID:        c.ID,
			Title:           "Week",
			ScheduledAt:     at,
			DurationMinutes: 60,
		}))
	}
	return c
}
