// Package memory implements store.Store in process memory for tests and
// local runs without Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"skillSwapAPI/internal/availability"
	"skillSwapAPI/internal/cohort"
	"skillSwapAPI/internal/connection"
	"skillSwapAPI/internal/referral"
	"skillSwapAPI/internal/skill"
	"skillSwapAPI/internal/store"
	"skillSwapAPI/internal/user"
)

type DB struct {
	mu sync.RWMutex

	users        map[string]user.User
	skills       map[string]skill.Skill
	userSkills   []skill.UserSkill
	connections  map[string]connection.Connection
	cohorts      map[string]cohort.Cohort
	members      []cohort.Member
	sessions     map[string]cohort.Session
	referrals    []referral.Referral
	availability map[string]availability.Availability
}

var _ store.Store = (*DB)(nil)

func New() *DB {
	return &DB{
		users:        make(map[string]user.User),
		skills:       make(map[string]skill.Skill),
		connections:  make(map[string]connection.Connection),
		cohorts:      make(map[string]cohort.Cohort),
		sessions:     make(map[string]cohort.Session),
		availability: make(map[string]availability.Availability),
	}
}

func (db *DB) Ping(ctx context.Context) error { return ctx.Err() }

func (db *DB) Close() {}

// --- Users ---

func (db *DB) CreateUser(ctx context.Context, u *user.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[u.ID]; ok {
		return store.ErrConflict
	}
	db.users[u.ID] = *u
	return nil
}

func (db *DB) GetUser(ctx context.Context, id string) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (db *DB) UpdateUser(ctx context.Context, u *user.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	db.users[u.ID] = *u
	return nil
}

func (db *DB) ListUsers(ctx context.Context, f user.ListFilter) ([]user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	q := strings.ToLower(f.Query)
	var out []user.User
	for _, u := range db.users {
		if q != "" &&
			!strings.Contains(strings.ToLower(u.DisplayName), q) &&
			!strings.Contains(strings.ToLower(u.Headline), q) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return page(out, f.Offset, f.Limit), nil
}

// hasUser mirrors the users foreign keys of the Postgres schema. Callers
// hold db.mu.
func (db *DB) hasUser(id string) bool {
	_, ok := db.users[id]
	return ok
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// --- Skills ---

func (db *DB) CreateSkill(ctx context.Context, s *skill.Skill) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.skills {
		if strings.EqualFold(existing.Name, s.Name) {
			return store.ErrConflict
		}
	}
	db.skills[s.ID] = *s
	return nil
}

func (db *DB) GetSkill(ctx context.Context, id string) (*skill.Skill, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s, ok := db.skills[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (db *DB) ListSkills(ctx context.Context, category string) ([]skill.Skill, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []skill.Skill{}
	for _, s := range db.skills {
		if category != "" && !strings.EqualFold(s.Category, category) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (db *DB) AddUserSkill(ctx context.Context, us *skill.UserSkill) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.userSkills {
		if existing.UserID == us.UserID && existing.SkillID == us.SkillID && existing.Kind == us.Kind {
			return store.ErrConflict
		}
	}
	if !db.hasUser(us.UserID) {
		return store.ErrNotFound
	}
	if _, ok := db.skills[us.SkillID]; !ok {
		return store.ErrNotFound
	}
	db.userSkills = append(db.userSkills, *us)
	return nil
}

func (db *DB) RemoveUserSkill(ctx context.Context, userID, skillID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	kept := db.userSkills[:0]
	removed := false
	for _, us := range db.userSkills {
		if us.UserID == userID && us.SkillID == skillID {
			removed = true
			continue
		}
		kept = append(kept, us)
	}
	db.userSkills = kept
	if !removed {
		return store.ErrNotFound
	}
	return nil
}

func (db *DB) ListUserSkills(ctx context.Context, userID string) ([]skill.UserSkill, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []skill.UserSkill{}
	for _, us := range db.userSkills {
		if us.UserID != userID {
			continue
		}
		us.SkillName = db.skills[us.SkillID].Name
		out = append(out, us)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- Connections ---

func (db *DB) CreateConnection(ctx context.Context, c *connection.Connection) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.connections {
		if existing.Involves(c.RequesterID) && existing.Involves(c.RecipientID) {
			return store.ErrConflict
		}
	}
	if !db.hasUser(c.RequesterID) || !db.hasUser(c.RecipientID) {
		return store.ErrNotFound
	}
	db.connections[c.ID] = *c
	return nil
}

func (db *DB) GetConnection(ctx context.Context, id string) (*connection.Connection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	c, ok := db.connections[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (db *DB) UpdateConnectionStatus(ctx context.Context, id string, status connection.Status, at time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.connections[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Status = status
	c.RespondedAt = &at
	db.connections[id] = c
	return nil
}

func (db *DB) DeleteConnection(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.connections[id]; !ok {
		return store.ErrNotFound
	}
	delete(db.connections, id)
	return nil
}

func (db *DB) ListConnections(ctx context.Context, userID string, status connection.Status) ([]connection.Connection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []connection.Connection{}
	for _, c := range db.connections {
		if !c.Involves(userID) || (status != "" && c.Status != status) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- Cohorts ---

func (db *DB) CreateCohort(ctx context.Context, c *cohort.Cohort, facilitator *cohort.Member) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.cohorts[c.ID]; ok {
		return store.ErrConflict
	}
	if !db.hasUser(c.FacilitatorID) || !db.hasUser(facilitator.UserID) {
		return store.ErrNotFound
	}
	if _, ok := db.skills[c.SkillID]; c.SkillID != "" && !ok {
		return store.ErrNotFound
	}
	db.cohorts[c.ID] = *c
	db.members = append(db.members, *facilitator)
	return nil
}

func (db *DB) GetCohort(ctx context.Context, id string) (*cohort.Cohort, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	c, ok := db.cohorts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (db *DB) ListCohorts(ctx context.Context) ([]cohort.Cohort, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]cohort.Cohort, 0, len(db.cohorts))
	for _, c := range db.cohorts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (db *DB) AddMember(ctx context.Context, m *cohort.Member) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, ok := db.cohorts[m.CohortID]
	if !ok {
		return store.ErrNotFound
	}
	seated := 0
	for _, existing := range db.members {
		if existing.CohortID != m.CohortID {
			continue
		}
		if existing.UserID == m.UserID {
			return store.ErrConflict
		}
		seated++
	}
	if seated >= c.Capacity {
		return store.ErrCapacity
	}
	if !db.hasUser(m.UserID) {
		return store.ErrNotFound
	}
	db.members = append(db.members, *m)
	return nil
}

func (db *DB) RemoveMember(ctx context.Context, cohortID, userID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, m := range db.members {
		if m.CohortID == cohortID && m.UserID == userID {
			db.members = append(db.members[:i], db.members[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (db *DB) ListMembers(ctx context.Context, cohortID string) ([]cohort.Member, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []cohort.Member{}
	for _, m := range db.members {
		if m.CohortID == cohortID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (db *DB) CreateSession(ctx context.Context, s *cohort.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.cohorts[s.CohortID]; !ok {
		return store.ErrNotFound
	}
	db.sessions[s.ID] = *s
	return nil
}

func (db *DB) GetSession(ctx context.Context, id string) (*cohort.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	s, ok := db.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (db *DB) UpdateSession(ctx context.Context, s *cohort.Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.sessions[s.ID]; !ok {
		return store.ErrNotFound
	}
	db.sessions[s.ID] = *s
	return nil
}

func (db *DB) DeleteSession(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(db.sessions, id)
	return nil
}

func (db *DB) ListSessions(ctx context.Context, cohortID string) ([]cohort.Session, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []cohort.Session{}
	for _, s := range db.sessions {
		if s.CohortID == cohortID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

// --- Referrals ---

func (db *DB) CreateReferral(ctx context.Context, r *referral.Referral) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.referrals {
		if existing.SenderID == r.SenderID && existing.RecipientID == r.RecipientID && existing.CohortID == r.CohortID {
			return store.ErrConflict
		}
	}
	if _, ok := db.cohorts[r.CohortID]; !ok || !db.hasUser(r.SenderID) || !db.hasUser(r.RecipientID) {
		return store.ErrNotFound
	}
	db.referrals = append(db.referrals, *r)
	return nil
}

func (db *DB) ListReferrals(ctx context.Context, userID string) ([]referral.Referral, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []referral.Referral{}
	for _, r := range db.referrals {
		if r.SenderID == userID || r.RecipientID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- Availability ---

func (db *DB) GetAvailability(ctx context.Context, userID string) (*availability.Availability, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	a, ok := db.availability[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.WeekMask = a.WeekMask.Clone()
	return &a, nil
}

func (db *DB) UpsertAvailability(ctx context.Context, a *availability.Availability) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stored := *a
	stored.WeekMask = a.WeekMask.Clone()
	db.availability[a.UserID] = stored
	return nil
}
