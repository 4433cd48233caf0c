package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/collabhub/engine/internal/models"
	"github.com/collabhub/engine/internal/repository"
	appErr "github.com/collabhub/engine/pkg/errors"
	"github.com/collabhub/engine/pkg/logger"
)

// TeamService owns the teammate-request state machine
// (PENDING -> ACCEPTED | REJECTED) and the membership side effect of
// acceptance.
type TeamService interface {
	CreateRequest(ctx context.Context, actor string, projectID uuid.UUID, targetEmail string) (*models.TeamRequest, error)
	Accept(ctx context.Context, actor string, requestID uuid.UUID) (*models.TeamMember, error)
	Reject(ctx context.Context, actor string, requestID uuid.UUID) (*models.TeamRequest, error)
	ListIncoming(ctx context.Context, actor string) ([]models.TeamRequest, error)
	ListTeam(ctx context.Context, projectID uuid.UUID) ([]models.TeamMember, error)
}

type teamService struct {
	projects repository.ProjectRepository
	requests repository.TeamRequestRepository
	team     repository.TeamRepository
}

func NewTeamService(projects repository.ProjectRepository, requests repository.TeamRequestRepository, team repository.TeamRepository) TeamService {
	return &teamService{projects: projects, requests: requests, team: team}
}

var _ TeamService = (*teamService)(nil)

func (s *teamService) CreateRequest(ctx context.Context, actor string, projectID uuid.UUID, targetEmail string) (*models.TeamRequest, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.OwnerEmail != actor {
		return nil, appErr.New(appErr.CodeForbidden, "only the project owner may invite teammates")
	}
	if targetEmail == "" {
		return nil, appErr.New(appErr.CodeInvalid, "target email is required")
	}
	already, err := s.team.IsMember(ctx, projectID, targetEmail)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, appErr.New(appErr.CodeInvalid, "target is already a team member")
	}

	req := &models.TeamRequest{
		ProjectID:      projectID,
		RequesterEmail: actor,
		TargetEmail:    targetEmail,
		Status:         models.RequestPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	logger.L().Info("teammate request created",
		zap.String("request_id", req.ID.String()),
		zap.String("project_id", projectID.String()),
		zap.String("target", targetEmail))
	return req, nil
}

func (s *teamService) Accept(ctx context.Context, actor string, requestID uuid.UUID) (*models.TeamMember, error) {
	req, err := s.loadForTarget(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	ok, err := s.requests.TransitionIfPending(ctx, requestID, models.RequestAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.New(appErr.CodeInvalidState, "request is no longer pending")
	}

	// Membership insert runs after the status transition committed;
	// AddIfAbsent is idempotent, so a retry after a crash between the two
	// writes converges to the same row.
	member, err := s.team.AddIfAbsent(ctx, req.ProjectID, req.TargetEmail)
	if err != nil {
		return nil, err
	}

	logger.L().Info("teammate request accepted",
		zap.String("request_id", requestID.String()),
		zap.String("project_id", req.ProjectID.String()),
		zap.String("member", req.TargetEmail))
	return member, nil
}

func (s *teamService) Reject(ctx context.Context, actor string, requestID uuid.UUID) (*models.TeamRequest, error) {
	if _, err := s.loadForTarget(ctx, actor, requestID); err != nil {
		return nil, err
	}

	ok, err := s.requests.TransitionIfPending(ctx, requestID, models.RequestRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.New(appErr.CodeInvalidState, "request is no longer pending")
	}

	// Re-read so the response carries the committed status and timestamp.
	var updated models.TeamRequest
	if err := s.requests.GetByID(ctx, requestID, &updated); err != nil {
		return nil, err
	}
	logger.L().Info("teammate request rejected",
		zap.String("request_id", requestID.String()),
		zap.String("project_id", updated.ProjectID.String()))
	return &updated, nil
}

func (s *teamService) ListIncoming(ctx context.Context, actor string) ([]models.TeamRequest, error) {
	return s.requests.ListByTarget(ctx, actor)
}

func (s *teamService) ListTeam(ctx context.Context, projectID uuid.UUID) ([]models.TeamMember, error) {
	return s.team.ListForProject(ctx, projectID)
}

func (s *teamService) loadForTarget(ctx context.Context, actor string, requestID uuid.UUID) (*models.TeamRequest, error) {
	var req models.TeamRequest
	if err := s.requests.GetByID(ctx, requestID, &req); err != nil {
		return nil, err
	}
	if req.TargetEmail != actor {
		return nil, appErr.New(appErr.CodeForbidden, "only the invited user may act on this request")
	}
	if req.Status != models.RequestPending {
		return nil, appErr.New(appErr.CodeInvalidState, "request already resolved")
	}
	return &req, nil
}
