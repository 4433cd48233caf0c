package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/collabhub/engine/internal/api/middleware"
	"github.com/collabhub/engine/internal/api/types"
	"github.com/collabhub/engine/internal/api/validators"
	"github.com/collabhub/engine/internal/resume"
	"github.com/collabhub/engine/internal/services"
	appErr "github.com/collabhub/engine/pkg/errors"
)

// ResumeHandler exposes resume parsing: Parse is stateless, Upload persists
// the result onto the actor's profile.
type ResumeHandler struct {
	parser resume.Parser
	auth   services.AuthService
}

func NewResumeHandler(parser resume.Parser, auth services.AuthService) *ResumeHandler {
	return &ResumeHandler{parser: parser, auth: auth}
}

func (h *ResumeHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req types.ParseResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeInvalid(w, err.Error())
		return
	}

	parsed, err := h.parser.Parse(r.Context(), req.ResumeText)
	if err != nil {
		writeError(w, appErr.Wrap(err, appErr.CodeUnavailable, "resume parser unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: json.RawMessage(parsed)})
}

// Upload re-parses the actor's resume and stores the result on their profile.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req types.ParseResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeInvalid(w, err.Error())
		return
	}

	actor := middleware.GetActor(r.Context())
	profile, err := h.auth.ReparseProfile(r.Context(), actor, req.ResumeText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: profileView(profile)})
}
