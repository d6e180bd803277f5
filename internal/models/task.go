package models

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a chore assigned to a family member. Completion and
// approval are independent booleans: the assignee flips completed, a
// parent flips approved, and only approved tasks count toward a balance.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FamilyID    uuid.UUID  `json:"family_id" db:"family_id"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty" db:"assigned_to"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Points      int        `json:"points" db:"points"`
	Completed   bool       `json:"completed" db:"completed"`
	Approved    bool       `json:"approved" db:"approved"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskCreateRequest is the request body for POST /api/tasks
type TaskCreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	Points      int        `json:"points" binding:"required,gt=0"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
}

// TaskUpdateRequest is the request body for PATCH /api/tasks/:id
type TaskUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Points      *int       `json:"points,omitempty"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
}

// TaskResponse is the API response format
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	FamilyID    uuid.UUID  `json:"family_id"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Points      int        `json:"points"`
	Completed   bool       `json:"completed"`
	Approved    bool       `json:"approved"`
	Status      string     `json:"status"`
	CompletedAt *string    `json:"completed_at,omitempty"`
	ApprovedAt  *string    `json:"approved_at,omitempty"`
	CreatedAt   string     `json:"created_at"`
}

// ToResponse converts Task to TaskResponse with the derived status attached
func (t *Task) ToResponse(status string) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		FamilyID:    t.FamilyID,
		AssignedTo:  t.AssignedTo,
		Title:       t.Title,
		Description: t.Description,
		Points:      t.Points,
		Completed:   t.Completed,
		Approved:    t.Approved,
		Status:      status,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}

	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	if t.ApprovedAt != nil {
		s := t.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}

	return resp
}
