package dto

import (
	"time"

	"github.com/noah-isme/sap-mentor-api/internal/models"
)

// ActivityLogResponse is one persisted audit entry.
type ActivityLogResponse struct {
	ID          uint           `json:"id"`
	MentorEmail string         `json:"mentorEmail"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entityType"`
	EntityID    *uint          `json:"entityId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewActivityLogResponse maps a model to its API shape.
func NewActivityLogResponse(entry models.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:          entry.ID,
		MentorEmail: entry.MentorEmail,
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
}

// ActivityLogListRequest narrows the audit trail listing.
type ActivityLogListRequest struct {
	Page       int    `query:"page"`
	PageSize   int    `query:"pageSize"`
	Action     string `query:"action"`
	EntityType string `query:"entityType"`
}

// PaginationMeta describes one page of a listing.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// ActivityLogListResponse is a page of audit entries.
type ActivityLogListResponse struct {
	Items      []ActivityLogResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}
