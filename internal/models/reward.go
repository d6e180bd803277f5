package models

import (
	"time"

	"github.com/google/uuid"
)

// Redemption statuses. A redemption leaves pending exactly once and is
// then terminal.
const (
	RedemptionPending  = "pending"
	RedemptionApproved = "approved"
	RedemptionRejected = "rejected"
)

// CanResolve reports whether a redemption in the given status may still be
// approved or rejected. Only pending redemptions qualify; approved and
// rejected are terminal and must never change status again.
func CanResolve(status string) bool {
	return status == RedemptionPending
}

// Reward represents an item that can be redeemed for points
type Reward struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FamilyID       uuid.UUID `json:"family_id" db:"family_id"`
	Title          string    `json:"title" db:"title"`
	Description    *string   `json:"description,omitempty" db:"description"`
	PointsRequired int       `json:"points_required" db:"points_required"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// RewardCreateRequest is the request body for POST /api/rewards
type RewardCreateRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    *string `json:"description,omitempty"`
	PointsRequired int     `json:"points_required" binding:"required,gt=0"`
}

// RewardUpdateRequest is the request body for PATCH /api/rewards/:id
type RewardUpdateRequest struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	PointsRequired *int    `json:"points_required,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// Redemption represents a child's request to exchange points for a reward.
// PointsSpent snapshots the reward's cost at redemption time so later
// reward edits never change what an approved redemption deducted.
type Redemption struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	RewardID    uuid.UUID  `json:"reward_id" db:"reward_id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	PointsSpent int        `json:"points_spent" db:"points_spent"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy  *uuid.UUID `json:"resolved_by,omitempty" db:"resolved_by"`
}

// RedemptionResponse is the API response format
type RedemptionResponse struct {
	ID          uuid.UUID `json:"id"`
	RewardID    uuid.UUID `json:"reward_id"`
	RewardTitle string    `json:"reward_title"`
	UserID      uuid.UUID `json:"user_id"`
	PointsSpent int       `json:"points_spent"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	ResolvedAt  *string   `json:"resolved_at,omitempty"`
}

// ToResponse converts Redemption to RedemptionResponse
func (r *Redemption) ToResponse(rewardTitle string) RedemptionResponse {
	resp := RedemptionResponse{
		ID:          r.ID,
		RewardID:    r.RewardID,
		RewardTitle: rewardTitle,
		UserID:      r.UserID,
		PointsSpent: r.PointsSpent,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}

	if r.ResolvedAt != nil {
		s := r.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &s
	}

	return resp
}
