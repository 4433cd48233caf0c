package repository

import (
	"context"

	"github.com/collabhub/engine/internal/models"
	appErr "github.com/collabhub/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListByOwner(ctx context.Context, ownerEmail string) ([]models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	// DeleteCascade hard-deletes the project together with its team requests
	// and team members in one transaction.
	DeleteCascade(ctx context.Context, projectID uuid.UUID) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db), db: db}
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("owner_email = ?", ownerEmail).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects by owner failed")
	}
	return out, nil
}

func (r *projectRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list all projects failed")
	}
	return out, nil
}

func (r *projectRepository) DeleteCascade(ctx context.Context, projectID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.TeamRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, "id = ?", projectID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete project cascade failed")
	}
	return nil
}
