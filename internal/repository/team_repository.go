package repository

import (
	"context"

	"github.com/collabhub/engine/internal/models"
	appErr "github.com/collabhub/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamRepository interface {
	// AddIfAbsent inserts the membership row, or returns the existing one if
	// the (project, member) pair is already present. Safe under concurrent
	// accepts of equivalent requests.
	AddIfAbsent(ctx context.Context, projectID uuid.UUID, memberEmail string) (*models.TeamMember, error)
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.TeamMember, error)
	ListForMember(ctx context.Context, memberEmail string) ([]models.TeamMember, error)
	IsMember(ctx context.Context, projectID uuid.UUID, memberEmail string) (bool, error)
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) AddIfAbsent(ctx context.Context, projectID uuid.UUID, memberEmail string) (*models.TeamMember, error) {
	m := models.TeamMember{ProjectID: projectID, MemberEmail: memberEmail}
	// The composite unique index enforces the invariant; ON CONFLICT DO
	// NOTHING swallows the race, the re-read returns the winning row.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "insert team member failed")
	}
	var out models.TeamMember
	if err := r.db.WithContext(ctx).Where("project_id = ? AND member_email = ?", projectID, memberEmail).First(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "read team member failed")
	}
	return &out, nil
}

func (r *teamRepository) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.TeamMember, error) {
	var out []models.TeamMember
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("added_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list team for project failed")
	}
	return out, nil
}

func (r *teamRepository) ListForMember(ctx context.Context, memberEmail string) ([]models.TeamMember, error) {
	var out []models.TeamMember
	if err := r.db.WithContext(ctx).Where("member_email = ?", memberEmail).Order("added_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list teams for member failed")
	}
	return out, nil
}

func (r *teamRepository) IsMember(ctx context.Context, projectID uuid.UUID, memberEmail string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.TeamMember{}).
		Where("project_id = ? AND member_email = ?", projectID, memberEmail).Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "membership check failed")
	}
	return n > 0, nil
}
