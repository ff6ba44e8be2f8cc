package repository

import (
	"context"
	"errors"
	"time"

	"fsa_tracker/internal/models"

	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Save(ctx context.Context, loc *models.LocationHistory) error {
	return translate(r.db.WithContext(ctx).Create(loc).Error)
}

// LastKnown returns the newest fix of the user, or nil when there is none.
func (r *LocationRepository) LastKnown(ctx context.Context, userID uint) (*models.LocationHistory, error) {
	var loc models.LocationHistory
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc").First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Latest returns the newest fix of each given user.
func (r *LocationRepository) Latest(ctx context.Context, userIDs []uint) ([]models.LocationHistory, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var locs []models.LocationHistory
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (user_id) * FROM location_histories
		     WHERE user_id IN ? AND deleted_at IS NULL
		     ORDER BY user_id, timestamp DESC`, userIDs).
		Scan(&locs).Error
	return locs, err
}

// PruneBefore hard-deletes fixes older than cutoff and reports how many went.
func (r *LocationRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("timestamp < ?", cutoff).Delete(&models.LocationHistory{})
	return res.RowsAffected, res.Error
}
