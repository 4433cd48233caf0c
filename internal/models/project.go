package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a posted collaboration opportunity. Multi-valued attributes
// (RequiredSkills, PreferredTech, Domain) are stored in canonical
// comma-delimited form; see the normalize package. OwnerEmail is set once at
// creation from the authenticated actor and never from the request payload.
//
// No gorm.DeletedAt: completing a project is a hard delete.
type Project struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Type           string    `gorm:"type:varchar(64);not null" json:"type"`
	Visibility     string    `gorm:"type:varchar(32);not null" json:"visibility"`
	RequiredSkills string    `gorm:"type:text;not null" json:"required_skills"`
	PreferredTech  string    `gorm:"type:text" json:"preferred_technologies"`
	Domain         string    `gorm:"type:text" json:"domain"`
	GithubRepo     string    `json:"github_repo,omitempty"`
	Description    string    `gorm:"type:text" json:"description"`
	OwnerEmail     string    `gorm:"index;not null" json:"owner_email"`
	CreatedAt      time.Time `json:"created_at"`
}
