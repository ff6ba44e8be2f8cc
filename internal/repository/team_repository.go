package repository

import (
	"context"

	"fsa_tracker/internal/models"

	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t *models.Team) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

// ByID loads the team with its members.
func (r *TeamRepository) ByID(ctx context.Context, id uint) (*models.Team, error) {
	var t models.Team
	if err := r.db.WithContext(ctx).Preload("Members").First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).Order("name").Find(&teams).Error
	return teams, translate(err)
}

func (r *TeamRepository) Save(ctx context.Context, t *models.Team) error {
	return translate(r.db.WithContext(ctx).Omit("Members").Save(t).Error)
}

// Delete soft-deletes the team; members keep their rows with team_id cleared.
func (r *TeamRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&models.Team{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AssignMember moves a user into the team.
func (r *TeamRepository) AssignMember(ctx context.Context, teamID, userID uint) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("team_id", teamID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
