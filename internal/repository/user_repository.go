package repository

import (
	"context"

	"fsa_tracker/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user; a taken email returns ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// TeamMembers lists the field users of a team.
func (r *UserRepository) TeamMembers(ctx context.Context, teamID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND role IN ?", teamID, []string{models.RoleRep, models.RoleDriver}).
		Order("name").
		Find(&users).Error
	return users, translate(err)
}

// SupervisedTeam returns the team a supervisor leads.
func (r *UserRepository) SupervisedTeam(ctx context.Context, supervisorID uint) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).Where("supervisor_id = ?", supervisorID).First(&team).Error; err != nil {
		return nil, translate(err)
	}
	return &team, nil
}
