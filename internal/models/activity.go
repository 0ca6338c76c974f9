package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable review actions taken by mentors. One row is
// written per decision so marks changes can be traced after the fact.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	MentorEmail string            `gorm:"size:255;index;not null" json:"mentor_email"`
	Action      string            `gorm:"size:64;not null" json:"action"`
	EntityType  string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID    *uint             `json:"entity_id"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Review audit actions.
const (
	ActionSubmissionDecided = "submission.decided"
	ActionEventReviewed     = "event.reviewed"
)
