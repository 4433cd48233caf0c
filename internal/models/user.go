package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform user. No gorm.DeletedAt: a user row is removed
// outright when registration rolls back, so the email's unique index frees
// up for a retry.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
