package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/collabhub/engine/internal/api/middleware"
	"github.com/collabhub/engine/internal/api/types"
	"github.com/collabhub/engine/internal/api/validators"
	"github.com/collabhub/engine/internal/services"
)

type TeammatesHandler struct {
	team services.TeamService
}

func NewTeammatesHandler(team services.TeamService) *TeammatesHandler {
	return &TeammatesHandler{team: team}
}

// Invite creates a PENDING teammate request from the project owner.
func (h *TeammatesHandler) Invite(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req types.TeammateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeInvalid(w, err.Error())
		return
	}

	actor := middleware.GetActor(r.Context())
	created, err := h.team.CreateRequest(r.Context(), actor, projectID, req.TargetEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: created})
}

func (h *TeammatesHandler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor := middleware.GetActor(r.Context())
	member, err := h.team.Accept(r.Context(), actor, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: member})
}

func (h *TeammatesHandler) Reject(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	actor := middleware.GetActor(r.Context())
	req, err := h.team.Reject(r.Context(), actor, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: req})
}

// ListIncoming returns all requests targeting the actor, oldest first.
func (h *TeammatesHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	items, err := h.team.ListIncoming(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items, Meta: &types.Meta{Total: int64(len(items))}})
}
