package models

import (
	"time"

	"github.com/google/uuid"
)

// Family is the tenancy boundary grouping parent and child accounts
// sharing tasks and rewards.
type Family struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Slug      string     `json:"slug" db:"slug"`
	Name      string     `json:"name" db:"name"`
	Plan      string     `json:"plan" db:"plan"`     // "free", "premium"
	Status    string     `json:"status" db:"status"` // "active", "suspended"
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"` // Soft delete
}
