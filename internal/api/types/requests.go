package types

import "github.com/collabhub/engine/internal/normalize"

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	ResumeText   string `json:"resume_text" validate:"required"`
	Name         string `json:"name"`
	Year         string `json:"year"`
	Department   string `json:"department"`
	Institution  string `json:"institution"`
	Availability string `json:"availability"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ParseResumeRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
}

// ProjectCreateRequest accepts the multi-valued fields in any historical
// client shape (array, CSV string, bracket-wrapped string); FieldList
// normalizes on decode.
type ProjectCreateRequest struct {
	Title          string              `json:"title" validate:"required"`
	Type           string              `json:"type" validate:"required"`
	Visibility     string              `json:"visibility" validate:"required"`
	RequiredSkills normalize.FieldList `json:"requiredSkills"`
	PreferredTech  normalize.FieldList `json:"preferredTechnologies"`
	Domain         normalize.FieldList `json:"domain"`
	GithubRepo     string              `json:"githubRepo"`
	Description    string              `json:"description"`
}

type TeammateInviteRequest struct {
	TargetEmail string `json:"target_email" validate:"required,email"`
}
