package handlers

import (
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/familytask/familytask-go/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListNotifications returns the caller's notifications, newest first.
// Pass ?unread=true to filter to unread only.
func ListNotifications(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := `
		SELECT id, user_id, family_id, title, message, type, read, action_url, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if c.Query("unread") == "true" {
		query += " AND read = false"
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(c.Request.Context(), query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query notifications", "details": err.Error()})
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification

		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.FamilyID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.Read,
			&n.ActionURL,
			&n.CreatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse notification data", "details": err.Error()})
			return
		}

		notifications = append(notifications, n)
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// CreateNotification manually sends a notification to a family member
// (parent only)
func CreateNotification(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		familyID, ok := middleware.GetAuthFamilyID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var req models.NotificationCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		var exists bool
		err := db.QueryRow(c.Request.Context(),
			"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND family_id = $2)",
			req.UserID, familyID,
		).Scan(&exists)
		if err != nil || !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient not found in family"})
			return
		}

		notifType := req.Type
		if notifType == "" {
			notifType = models.NotificationGeneral
		}

		notifID := uuid.New()
		_, err = db.Exec(c.Request.Context(), `
			INSERT INTO notifications (id, user_id, family_id, title, message, type, read, action_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, $7, NOW())
		`, notifID, req.UserID, familyID, req.Title, req.Message, notifType, req.ActionURL)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
			return
		}

		hub.Push(req.UserID, realtime.Event{
			Type:      notifType,
			ID:        notifID,
			Title:     req.Title,
			Message:   req.Message,
			ActionURL: req.ActionURL,
		})

		c.JSON(http.StatusCreated, gin.H{
			"message":         "Notification created successfully",
			"notification_id": notifID,
		})
	}
}

// MarkNotificationRead marks one of the caller's notifications as read
func MarkNotificationRead(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notifID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
		return
	}

	tag, err := db.Exec(c.Request.Context(),
		"UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2",
		notifID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification", "details": err.Error()})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Notification marked as read",
		"notification_id": notifID,
	})
}

// DeleteNotification removes one of the caller's notifications
func DeleteNotification(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notifID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
		return
	}

	tag, err := db.Exec(c.Request.Context(),
		"DELETE FROM notifications WHERE id = $1 AND user_id = $2",
		notifID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification", "details": err.Error()})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Notification deleted successfully",
		"notification_id": notifID,
	})
}

// StreamNotifications upgrades the connection to a WebSocket and streams
// the caller's notification events until the client disconnects. Runs
// behind RequireAuth; the user identity comes from the validated token.
func StreamNotifications(hub *realtime.Hub, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		// Cross-origin upgrades are allowed: the connection is gated by the
		// bearer token above, which a hostile page cannot obtain.
		conn, err := ws.Accept(c.Writer, c.Request, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Warn("websocket accept failed", zap.Error(err))
			return
		}

		client := realtime.NewClient(hub, conn, userID)
		client.Run(c.Request.Context())
	}
}
