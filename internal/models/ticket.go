package models

import (
	"time"
)

// SupportTicketStatus enumerates ticket states
type SupportTicketStatus string

const (
	TicketOpen       SupportTicketStatus = "open"
	TicketInProgress SupportTicketStatus = "in_progress"
	TicketResolved   SupportTicketStatus = "resolved"
	TicketClosed     SupportTicketStatus = "closed"
)

// Valid reports whether s is a known ticket status
func (s SupportTicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// SupportTicketPriority enumerates ticket priorities
type SupportTicketPriority string

const (
	PriorityLow    SupportTicketPriority = "low"
	PriorityNormal SupportTicketPriority = "normal"
	PriorityHigh   SupportTicketPriority = "high"
	PriorityUrgent SupportTicketPriority = "urgent"
)

// Valid reports whether p is a known ticket priority
func (p SupportTicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SupportTicket is a helpdesk request. Anyone can open one; only parents
// may change status or priority.
type SupportTicket struct {
	ID           int64                 `json:"id" db:"id"`
	TicketNumber int64                 `json:"ticket_number" db:"ticket_number"`
	Name         string                `json:"name" db:"name"`
	Email        string                `json:"email" db:"email"`
	Category     string                `json:"category" db:"category"`
	Message      string                `json:"message" db:"message"`
	Status       SupportTicketStatus   `json:"status" db:"status"`
	Priority     SupportTicketPriority `json:"priority" db:"priority"`
	CreatedAt    time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at" db:"updated_at"`
}

// TicketCreateRequest is the request body for POST /api/support/tickets
type TicketCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Category string `json:"category"`
	Message  string `json:"message" binding:"required"`
}

// TicketUpdateRequest is the request body for PATCH /api/support/tickets/:id
type TicketUpdateRequest struct {
	Status   *SupportTicketStatus   `json:"status,omitempty"`
	Priority *SupportTicketPriority `json:"priority,omitempty"`
}
