package repository

import (
	"context"

	"github.com/collabhub/engine/internal/models"
	appErr "github.com/collabhub/engine/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	BaseRepository[models.Profile]
	GetByEmail(ctx context.Context, email string, dest *models.Profile) error
	// Upsert inserts or replaces the profile for its email.
	Upsert(ctx context.Context, p *models.Profile) error
}

type profileRepository struct {
	BaseRepository[models.Profile]
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{BaseRepository: NewBaseRepository[models.Profile](db), db: db}
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string, dest *models.Profile) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return appErr.New(appErr.CodeNotFound, "profile not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get profile by email failed")
	}
	return nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "year", "department", "institution", "availability", "resume_json", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert profile failed")
	}
	return nil
}
