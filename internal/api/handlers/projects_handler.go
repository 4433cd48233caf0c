package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/collabhub/engine/internal/api/middleware"
	"github.com/collabhub/engine/internal/api/types"
	"github.com/collabhub/engine/internal/api/validators"
	"github.com/collabhub/engine/internal/services"
)

type ProjectsHandler struct {
	projects services.ProjectService
	team     services.TeamService
}

func NewProjectsHandler(projects services.ProjectService, team services.TeamService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, team: team}
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeInvalid(w, err.Error())
		return
	}
	if req.RequiredSkills.Empty() {
		writeInvalid(w, "requiredSkills must not be empty")
		return
	}

	actor := middleware.GetActor(r.Context())
	p, err := h.projects.CreateProject(r.Context(), actor, &services.CreateProjectInput{
		Title:          req.Title,
		Type:           req.Type,
		Visibility:     req.Visibility,
		RequiredSkills: req.RequiredSkills.String(),
		PreferredTech:  req.PreferredTech.String(),
		Domain:         req.Domain.String(),
		GithubRepo:     req.GithubRepo,
		Description:    req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: p})
}

// List returns the actor's visibility view: owned projects first, then
// projects joined as a teammate.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	items, err := h.projects.ListVisible(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

// Explore returns every project; visibility tags are informational metadata.
func (h *ProjectsHandler) Explore(w http.ResponseWriter, r *http.Request) {
	items, err := h.projects.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.projects.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	team, err := h.team.ListTeam(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]any{
		"project":   p,
		"teammates": team,
	}})
}

func (h *ProjectsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor := middleware.GetActor(r.Context())
	if err := h.projects.Complete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}
