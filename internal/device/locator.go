package device

import (
	"context"
	"errors"
	"time"

	"fsa_tracker/internal/models"
	"fsa_tracker/internal/visit"
)

// ErrNoFix means no usable location is available for the user.
var ErrNoFix = errors.New("no recent location fix")

// Locator resolves the current position of a user.
type Locator interface {
	Locate(ctx context.Context, userID uint) (*visit.Coordinates, error)
}

// LocationSource returns the newest stored location of a user, or nil.
type LocationSource interface {
	LastKnown(ctx context.Context, userID uint) (*models.LocationHistory, error)
}

// LastKnownLocator answers with the newest fix pushed over the live feed,
// provided it is younger than MaxAge.
type LastKnownLocator struct {
	Source LocationSource
	MaxAge time.Duration
	Now    func() time.Time
}

func NewLastKnownLocator(src LocationSource, maxAge time.Duration) *LastKnownLocator {
	return &LastKnownLocator{Source: src, MaxAge: maxAge, Now: time.Now}
}

func (l *LastKnownLocator) Locate(ctx context.Context, userID uint) (*visit.Coordinates, error) {
	loc, err := l.Source.LastKnown(ctx, userID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, ErrNoFix
	}
	if l.MaxAge > 0 && l.Now().Sub(loc.Timestamp) > l.MaxAge {
		return nil, ErrNoFix
	}
	return &visit.Coordinates{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Accuracy:  loc.Accuracy,
	}, nil
}
