package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types used by the built-in fan-out. The column is free-form
// text so database-side triggers can add their own.
const (
	NotificationTaskCompleted      = "task_completed"
	NotificationTaskApproved       = "task_approved"
	NotificationRedemptionResolved = "redemption_resolved"
	NotificationGeneral            = "general"
)

// Notification is an informational record in a user's inbox. Delivery is
// best-effort: a missing notification never blocks a task or redemption
// transition.
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FamilyID  uuid.UUID `json:"family_id" db:"family_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	Read      bool      `json:"read" db:"read"`
	ActionURL *string   `json:"action_url,omitempty" db:"action_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationCreateRequest is the request body for POST /api/notifications
type NotificationCreateRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	Message   string    `json:"message" binding:"required"`
	Type      string    `json:"type"`
	ActionURL *string   `json:"action_url,omitempty"`
}
