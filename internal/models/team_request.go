package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a teammate request.
// PENDING is the initial state; ACCEPTED and REJECTED are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
	RequestRejected RequestStatus = "REJECTED"
)

// TeamRequest is an invitation from a project owner to a target user.
// RequesterEmail always equals the project's OwnerEmail at creation time.
type TeamRequest struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"project_id"`
	RequesterEmail string        `gorm:"not null" json:"requester_email"`
	TargetEmail    string        `gorm:"index;not null" json:"target_email"`
	Status         RequestStatus `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
