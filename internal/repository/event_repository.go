package repository

import (
	"context"
	"errors"

	"fsa_tracker/internal/models"

	"gorm.io/gorm"
)

// EventRepository is the stop journal.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Record appends an event. Replaying an event id is a no-op.
func (r *EventRepository) Record(ctx context.Context, ev *models.StopEvent) error {
	err := translate(r.db.WithContext(ctx).Create(ev).Error)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// ForStop lists the events of a stop, oldest first.
func (r *EventRepository) ForStop(ctx context.Context, routeID, stopID string) ([]models.StopEvent, error) {
	var events []models.StopEvent
	err := r.db.WithContext(ctx).
		Where("route_id = ? AND stop_id = ?", routeID, stopID).
		Order("occurred_at asc, id asc").
		Find(&events).Error
	return events, err
}
