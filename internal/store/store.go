// Package store declares the persistence ports. Implementations live in
// store/postgres and store/memory.
package store

import (
	"context"
	"errors"
	"time"

	"skillSwapAPI/internal/availability"
	"skillSwapAPI/internal/cohort"
	"skillSwapAPI/internal/connection"
	"skillSwapAPI/internal/referral"
	"skillSwapAPI/internal/skill"
	"skillSwapAPI/internal/user"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("record already exists")
	// ErrCapacity is returned when a cohort has no free seats.
	ErrCapacity = errors.New("cohort is at capacity")
)

type Users interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error
	ListUsers(ctx context.Context, f user.ListFilter) ([]user.User, error)
}

type Skills interface {
	CreateSkill(ctx context.Context, s *skill.Skill) error
	GetSkill(ctx context.Context, id string) (*skill.Skill, error)
	ListSkills(ctx context.Context, category string) ([]skill.Skill, error)
	AddUserSkill(ctx context.Context, us *skill.UserSkill) error
	RemoveUserSkill(ctx context.Context, userID, skillID string) error
	ListUserSkills(ctx context.Context, userID string) ([]skill.UserSkill, error)
}

type Connections interface {
	// CreateConnection returns ErrConflict when the pair is already
	// connected in either direction.
	CreateConnection(ctx context.Context, c *connection.Connection) error
	GetConnection(ctx context.Context, id string) (*connection.Connection, error)
	UpdateConnectionStatus(ctx context.Context, id string, status connection.Status, at time.Time) error
	DeleteConnection(ctx context.Context, id string) error
	ListConnections(ctx context.Context, userID string, status connection.Status) ([]connection.Connection, error)
}

type Cohorts interface {
	// CreateCohort stores the cohort and its facilitator's membership
	// together, or neither.
	CreateCohort(ctx context.Context, c *cohort.Cohort, facilitator *cohort.Member) error
	GetCohort(ctx context.Context, id string) (*cohort.Cohort, error)
	ListCohorts(ctx context.Context) ([]cohort.Cohort, error)

	// AddMember checks membership and capacity and inserts atomically. It
	// returns ErrConflict for an existing member and ErrCapacity once the
	// cohort holds Capacity members.
	AddMember(ctx context.Context, m *cohort.Member) error
	RemoveMember(ctx context.Context, cohortID, userID string) error
	ListMembers(ctx context.Context, cohortID string) ([]cohort.Member, error)

	CreateSession(ctx context.Context, s *cohort.Session) error
	GetSession(ctx context.Context, id string) (*cohort.Session, error)
	UpdateSession(ctx context.Context, s *cohort.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, cohortID string) ([]cohort.Session, error)
}

type Referrals interface {
	CreateReferral(ctx context.Context, r *referral.Referral) error
	ListReferrals(ctx context.Context, userID string) ([]referral.Referral, error)
}

type Availability interface {
	GetAvailability(ctx context.Context, userID string) (*availability.Availability, error)
	// UpsertAvailability replaces the whole mask, inserting when absent.
	UpsertAvailability(ctx context.Context, a *availability.Availability) error
}

// Store is everything the API needs from persistence. Writes that reference
// a user, skill or cohort return ErrNotFound when that record is missing.
type Store interface {
	Users
	Skills
	Connections
	Cohorts
	Referrals
	Availability
	Ping(ctx context.Context) error
	Close()
}
