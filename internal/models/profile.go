package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile holds a user's declared profile fields plus the structured JSON
// produced by the external resume parser at registration time. One row per
// email; re-parsing overwrites ResumeJSON in place.
type Profile struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Name         string         `json:"name"`
	Year         string         `json:"year"`
	Department   string         `json:"department"`
	Institution  string         `json:"institution"`
	Availability string         `json:"availability"`
	ResumeJSON   datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
