package dto

import (
	"time"

	"github.com/noah-isme/sap-mentor-api/internal/models"
)

// NotificationResponse is one stored notification.
type NotificationResponse struct {
	ID          uint      `json:"id"`
	MentorEmail string    `json:"mentorEmail"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewNotificationResponse maps a model to its API shape.
func NewNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		MentorEmail: n.MentorEmail,
		Type:        n.Type,
		Message:     n.Message,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

// NewNotificationResponseSlice maps a list of models.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}

// PendingStatusResponse answers the lightweight pending-review probe.
type PendingStatusResponse struct {
	HasPending   bool `json:"hasPending"`
	PendingCount int  `json:"pendingCount"`
}

// NotificationEvent is the payload fanned out to stream subscribers.
type NotificationEvent struct {
	MentorEmail  string    `json:"mentorEmail"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	PendingCount int       `json:"pendingCount"`
	EmittedAt    time.Time `json:"emittedAt"`
}
