package repository

import (
	"context"
	"time"

	"fsa_tracker/internal/models"
)

// Journal persists stop events.
type Journal interface {
	Record(ctx context.Context, ev *models.StopEvent) error
	ForStop(ctx context.Context, routeID, stopID string) ([]models.StopEvent, error)
}

// Locations stores GPS pings pushed over the live feed.
type Locations interface {
	Save(ctx context.Context, loc *models.LocationHistory) error
	LastKnown(ctx context.Context, userID uint) (*models.LocationHistory, error)
	Latest(ctx context.Context, userIDs []uint) ([]models.LocationHistory, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Users looks up accounts and teams.
type Users interface {
	Create(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id uint) (*models.User, error)
	TeamMembers(ctx context.Context, teamID uint) ([]models.User, error)
	SupervisedTeam(ctx context.Context, supervisorID uint) (*models.Team, error)
}

// Teams administers supervisor teams.
type Teams interface {
	Create(ctx context.Context, t *models.Team) error
	ByID(ctx context.Context, id uint) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Save(ctx context.Context, t *models.Team) error
	Delete(ctx context.Context, id uint) error
	AssignMember(ctx context.Context, teamID, userID uint) error
}

var (
	_ Teams     = (*TeamRepository)(nil)
	_ Journal   = (*EventRepository)(nil)
	_ Locations = (*LocationRepository)(nil)
	_ Users     = (*UserRepository)(nil)
)
