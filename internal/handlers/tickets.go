package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/familytask/familytask-go/internal/email"
	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateTicket opens a support ticket. This endpoint is public: users who
// cannot log in still need a way to reach support. The acknowledgement and
// support-inbox emails are best-effort and never fail the request.
func CreateTicket(mailer *email.Client, supportInbox string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		var req models.TicketCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		category := req.Category
		if category == "" {
			category = "general"
		}

		var ticketID, ticketNumber int64
		err := db.QueryRow(c.Request.Context(), `
			INSERT INTO support_tickets (name, email, category, message, status, priority, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, ticket_number
		`, req.Name, req.Email, category, req.Message, models.TicketOpen, models.PriorityNormal).Scan(&ticketID, &ticketNumber)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket", "details": err.Error()})
			return
		}

		if mailer.Configured() {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := mailer.SendTicketAck(ctx, req.Email, req.Name, ticketNumber); err != nil {
					logger.Warn("ticket acknowledgement email failed",
						zap.Int64("ticket_number", ticketNumber), zap.Error(err))
				}
				if supportInbox != "" {
					if err := mailer.SendSupportNotice(ctx, supportInbox, ticketNumber, req.Name, req.Email, category, req.Message); err != nil {
						logger.Warn("support inbox email failed",
							zap.Int64("ticket_number", ticketNumber), zap.Error(err))
					}
				}
			}()
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Support ticket created",
			"ticket_number": ticketNumber,
			"status":        models.TicketOpen,
		})
	}
}

// ListTickets returns all support tickets, newest first (parent only)
func ListTickets(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	query := `
		SELECT id, ticket_number, name, email, category, message, status, priority,
			created_at, updated_at
		FROM support_tickets
	`
	args := []interface{}{}

	if status := models.SupportTicketStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		args = append(args, status)
		query += " WHERE status = $1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(c.Request.Context(), query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query tickets", "details": err.Error()})
		return
	}
	defer rows.Close()

	tickets := []models.SupportTicket{}
	for rows.Next() {
		var t models.SupportTicket

		err := rows.Scan(
			&t.ID,
			&t.TicketNumber,
			&t.Name,
			&t.Email,
			&t.Category,
			&t.Message,
			&t.Status,
			&t.Priority,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse ticket data", "details": err.Error()})
			return
		}

		tickets = append(tickets, t)
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// UpdateTicket changes a ticket's status or priority (parent only).
// Both enums are validated exhaustively before any write.
func UpdateTicket(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID format"})
		return
	}

	var req models.TicketUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.Status == nil && req.Priority == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket status"})
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket priority"})
		return
	}

	setClauses := "updated_at = NOW()"
	args := []interface{}{}

	if req.Status != nil {
		args = append(args, *req.Status)
		setClauses += ", status = $" + strconv.Itoa(len(args))
	}
	if req.Priority != nil {
		args = append(args, *req.Priority)
		setClauses += ", priority = $" + strconv.Itoa(len(args))
	}

	args = append(args, ticketID)
	query := "UPDATE support_tickets SET " + setClauses + " WHERE id = $" + strconv.Itoa(len(args))

	tag, err := db.Exec(c.Request.Context(), query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket", "details": err.Error()})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Ticket updated successfully",
		"ticket_id": ticketID,
	})
}
