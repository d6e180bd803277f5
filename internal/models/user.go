package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a family member
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	FamilyID     uuid.UUID  `json:"family_id" db:"family_id"`
	Username     string     `json:"username" db:"username"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	Email        *string    `json:"email,omitempty" db:"email"`
	PasswordHash *string    `json:"-" db:"password_hash"`
	IsParent     bool       `json:"is_parent" db:"is_parent"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// UserListResponse is the simplified response for user lists
type UserListResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	IsParent    bool      `json:"is_parent"`
	IsActive    bool      `json:"is_active"`
}

// ToListResponse converts User to UserListResponse
func (u *User) ToListResponse() UserListResponse {
	return UserListResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		IsParent:    u.IsParent,
		IsActive:    u.IsActive,
	}
}

// PointsBalance is the response for GET /api/users/:id/points.
// Balance is always recomputed from approved tasks minus approved
// redemptions, never read from a cached column.
type PointsBalance struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Earned      int       `json:"earned"`
	Spent       int       `json:"spent"`
	Balance     int       `json:"balance"`
}
