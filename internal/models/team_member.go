package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is a finalized membership, created only by accepting a
// TeamRequest. The composite unique index makes acceptance idempotent:
// at most one row per (project, member) pair.
type TeamMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_project_member" json:"project_id"`
	MemberEmail string    `gorm:"not null;uniqueIndex:idx_team_members_project_member" json:"member_email"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"added_at"`
}
