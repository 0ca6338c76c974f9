package models

import "time"

// Notification is a persisted pending-review alert addressed to a mentor.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MentorEmail string    `gorm:"size:255;index;not null" json:"mentor_email"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Read        bool      `gorm:"default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification types.
const (
	NotificationPendingReview = "pending_review"
)
