package dto

import (
	"time"

	"github.com/noah-isme/unireg-go-api/internal/models"
)

// AuditLogListRequest defines filters for the admin audit trail listing.
type AuditLogListRequest struct {
	Page       int
	PageSize   int
	ActorID    uint
	ActionType string
	EntityType string
	Search     string
}

// AuditLogResponse serializes an audit trail entry.
type AuditLogResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActionType string                 `json:"action_type"`
	EntityType string                 `json:"entity_type"`
	Before     map[string]interface{} `json:"before"`
	After      map[string]interface{} `json:"after"`
	CreatedAt  time.Time              `json:"created_at"`
	Actor      *UserResponse          `json:"actor,omitempty"`
}

// NewAuditLogResponse maps an audit log model onto its response shape.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	response := AuditLogResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActionType: entry.ActionType,
		EntityType: entry.EntityType,
		Before:     entry.Before,
		After:      entry.After,
		CreatedAt:  entry.CreatedAt,
	}

	if entry.Actor.ID != 0 {
		actor := NewUserResponse(entry.Actor)
		response.Actor = &actor
	}

	return response
}

// AuditLogListResponse wraps a paginated audit trail listing.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
