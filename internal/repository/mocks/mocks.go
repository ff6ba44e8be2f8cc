package mocks

import (
	"context"
	"time"

	"fsa_tracker/internal/models"

	"github.com/stretchr/testify/mock"
)

// Journal is a mock for repository.Journal.
type Journal struct {
	mock.Mock
}

func (m *Journal) Record(ctx context.Context, ev *models.StopEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *Journal) ForStop(ctx context.Context, routeID, stopID string) ([]models.StopEvent, error) {
	args := m.Called(ctx, routeID, stopID)
	if list, ok := args.Get(0).([]models.StopEvent); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Locations is a mock for repository.Locations.
type Locations struct {
	mock.Mock
}

func (m *Locations) Save(ctx context.Context, loc *models.LocationHistory) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *Locations) LastKnown(ctx context.Context, userID uint) (*models.LocationHistory, error) {
	args := m.Called(ctx, userID)
	if loc, ok := args.Get(0).(*models.LocationHistory); ok {
		return loc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Locations) Latest(ctx context.Context, userIDs []uint) ([]models.LocationHistory, error) {
	args := m.Called(ctx, userIDs)
	if list, ok := args.Get(0).([]models.LocationHistory); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Locations) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Users is a mock for repository.Users.
type Users struct {
	mock.Mock
}

func (m *Users) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Users) ByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Users) TeamMembers(ctx context.Context, teamID uint) ([]models.User, error) {
	args := m.Called(ctx, teamID)
	if list, ok := args.Get(0).([]models.User); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Users) SupervisedTeam(ctx context.Context, supervisorID uint) (*models.Team, error) {
	args := m.Called(ctx, supervisorID)
	if team, ok := args.Get(0).(*models.Team); ok {
		return team, args.Error(1)
	}
	return nil, args.Error(1)
}

// Teams is a mock for repository.Teams.
type Teams struct {
	mock.Mock
}

func (m *Teams) Create(ctx context.Context, t *models.Team) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *Teams) ByID(ctx context.Context, id uint) (*models.Team, error) {
	args := m.Called(ctx, id)
	if team, ok := args.Get(0).(*models.Team); ok {
		return team, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Teams) List(ctx context.Context) ([]models.Team, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]models.Team); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Teams) Save(ctx context.Context, t *models.Team) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *Teams) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Teams) AssignMember(ctx context.Context, teamID, userID uint) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}
