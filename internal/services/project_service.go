package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/collabhub/engine/internal/models"
	"github.com/collabhub/engine/internal/normalize"
	"github.com/collabhub/engine/internal/notify"
	"github.com/collabhub/engine/internal/repository"
	appErr "github.com/collabhub/engine/pkg/errors"
	"github.com/collabhub/engine/pkg/logger"
)

// ProjectService is the project directory: creation, ownership enforcement,
// retrieval, the explore view, and the owned+member visibility view.
type ProjectService interface {
	CreateProject(ctx context.Context, actor string, input *CreateProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	ListOwned(ctx context.Context, actor string) ([]models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	// ListVisible returns every project the actor owns plus every project
	// the actor is an accepted teammate on, owned first, deduplicated.
	ListVisible(ctx context.Context, actor string) ([]models.Project, error)
	// Complete hard-deletes an owned project and cascades to its team
	// requests and memberships.
	Complete(ctx context.Context, actor string, projectID uuid.UUID) error
}

// CreateProjectInput carries already-normalized multi-valued fields; the
// handler boundary runs them through the normalize package.
type CreateProjectInput struct {
	Title          string
	Type           string
	Visibility     string
	RequiredSkills string
	PreferredTech  string
	Domain         string
	GithubRepo     string
	Description    string
}

type projectService struct {
	projects repository.ProjectRepository
	team     repository.TeamRepository
	notifier notify.Port
}

func NewProjectService(projects repository.ProjectRepository, team repository.TeamRepository, notifier notify.Port) ProjectService {
	return &projectService{projects: projects, team: team, notifier: notifier}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, actor string, input *CreateProjectInput) (*models.Project, error) {
	if actor == "" {
		return nil, appErr.New(appErr.CodeUnauthorized, "no authenticated actor")
	}
	if input.Title == "" || input.Type == "" || input.Visibility == "" {
		return nil, appErr.New(appErr.CodeInvalid, "title, type, and visibility are required")
	}
	if normalize.Canonical(input.RequiredSkills) == "" {
		return nil, appErr.New(appErr.CodeInvalid, "required skills must not be empty")
	}

	p := &models.Project{
		Title:          input.Title,
		Type:           input.Type,
		Visibility:     input.Visibility,
		RequiredSkills: normalize.Canonical(input.RequiredSkills),
		PreferredTech:  normalize.Canonical(input.PreferredTech),
		Domain:         normalize.Canonical(input.Domain),
		GithubRepo:     input.GithubRepo,
		Description:    input.Description,
		OwnerEmail:     actor,
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	// Best-effort: a failed dispatch never fails creation.
	if err := s.notifier.NotifyProject(ctx, p); err != nil {
		logger.L().Warn("project notification dropped", zap.String("project_id", p.ID.String()), zap.Error(err))
	}

	logger.L().Info("project created", zap.String("project_id", p.ID.String()), zap.String("owner", actor))
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *projectService) ListOwned(ctx context.Context, actor string) ([]models.Project, error) {
	return s.projects.ListByOwner(ctx, actor)
}

func (s *projectService) ListAll(ctx context.Context) ([]models.Project, error) {
	return s.projects.ListAll(ctx)
}

func (s *projectService) ListVisible(ctx context.Context, actor string) ([]models.Project, error) {
	owned, err := s.projects.ListByOwner(ctx, actor)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(owned))
	out := make([]models.Project, 0, len(owned))
	for _, p := range owned {
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	memberships, err := s.team.ListForMember(ctx, actor)
	if err != nil {
		return nil, err
	}
	for _, m := range memberships {
		if _, ok := seen[m.ProjectID]; ok {
			continue
		}
		var p models.Project
		if err := s.projects.GetByID(ctx, m.ProjectID, &p); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				// membership row outlived its project; skip
				continue
			}
			return nil, err
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func (s *projectService) Complete(ctx context.Context, actor string, projectID uuid.UUID) error {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		return err
	}
	if p.OwnerEmail != actor {
		return appErr.New(appErr.CodeForbidden, "only the project owner may complete it")
	}
	if err := s.projects.DeleteCascade(ctx, projectID); err != nil {
		return err
	}
	logger.L().Info("project completed", zap.String("project_id", projectID.String()), zap.String("owner", actor))
	return nil
}
