package repository

import (
	"context"
	"time"

	"github.com/collabhub/engine/internal/models"
	appErr "github.com/collabhub/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRequestRepository interface {
	BaseRepository[models.TeamRequest]
	ListByTarget(ctx context.Context, targetEmail string) ([]models.TeamRequest, error)
	// TransitionIfPending atomically moves the request from PENDING to the
	// given terminal status. Returns false if the row was not PENDING
	// anymore (or the update raced with a concurrent transition).
	TransitionIfPending(ctx context.Context, requestID uuid.UUID, to models.RequestStatus) (bool, error)
}

type teamRequestRepository struct {
	BaseRepository[models.TeamRequest]
	db *gorm.DB
}

func NewTeamRequestRepository(db *gorm.DB) TeamRequestRepository {
	return &teamRequestRepository{BaseRepository: NewBaseRepository[models.TeamRequest](db), db: db}
}

func (r *teamRequestRepository) ListByTarget(ctx context.Context, targetEmail string) ([]models.TeamRequest, error) {
	var out []models.TeamRequest
	if err := r.db.WithContext(ctx).Where("target_email = ?", targetEmail).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list requests by target failed")
	}
	return out, nil
}

func (r *teamRequestRepository) TransitionIfPending(ctx context.Context, requestID uuid.UUID, to models.RequestStatus) (bool, error) {
	// Single-row compare-and-set: the WHERE clause on status guarantees two
	// concurrent transitions cannot both succeed.
	res := r.db.WithContext(ctx).Model(&models.TeamRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, appErr.Wrap(res.Error, appErr.CodeInternal, "transition request failed")
	}
	return res.RowsAffected == 1, nil
}
