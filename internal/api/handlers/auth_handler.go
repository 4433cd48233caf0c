package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/collabhub/engine/internal/api/middleware"
	"github.com/collabhub/engine/internal/api/types"
	"github.com/collabhub/engine/internal/api/validators"
	"github.com/collabhub/engine/internal/models"
	"github.com/collabhub/engine/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeInvalid(w, err.Error())
		return
	}

	token, profile, err := h.auth.Register(r.Context(), &services.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		ResumeText:   req.ResumeText,
		Name:         req.Name,
		Year:         req.Year,
		Department:   req.Department,
		Institution:  req.Institution,
		Availability: req.Availability,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"profile":      profileView(profile),
		},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalid(w, "invalid json")
		return
	}
	if err := validators.New().Struct(req); err != nil {
		writeInvalid(w, err.Error())
		return
	}

	token, profile, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	data := map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
	}
	if profile != nil {
		data["profile"] = profileView(profile)
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: data})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	profile, err := h.auth.GetProfile(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: profileView(profile)})
}

// GetProfileByEmail returns another user's profile.
func (h *AuthHandler) GetProfileByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" || email == "null" || email == "undefined" {
		writeInvalid(w, "invalid email")
		return
	}
	profile, err := h.auth.GetProfile(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: profileView(profile)})
}

func profileView(p *models.Profile) *types.ProfileResponse {
	if p == nil {
		return nil
	}
	return &types.ProfileResponse{
		Email:        p.Email,
		Name:         p.Name,
		Year:         p.Year,
		Department:   p.Department,
		Institution:  p.Institution,
		Availability: p.Availability,
	}
}
