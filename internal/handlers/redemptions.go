package handlers

import (
	"net/http"

	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/familytask/familytask-go/internal/realtime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResolveRedemptionRequest is the request body for resolving a redemption
type ResolveRedemptionRequest struct {
	Approved bool    `json:"approved"`
	Notes    *string `json:"notes,omitempty"`
}

// ListRedemptions returns the caller's redemption history. Parents see
// every redemption in the family.
func ListRedemptions(c *gin.Context) {
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

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	isParent, _ := middleware.GetAuthIsParent(c)

	query := `
		SELECT rd.id, rd.reward_id, r.title, rd.user_id, rd.points_spent,
			rd.status, rd.created_at, rd.resolved_at, rd.resolved_by
		FROM redemptions rd
		JOIN rewards r ON rd.reward_id = r.id
		WHERE r.family_id = $1
	`
	args := []interface{}{familyID}

	if !isParent {
		args = append(args, userID)
		query += " AND rd.user_id = $2"
	}
	query += " ORDER BY rd.created_at DESC"

	rows, err := db.Query(c.Request.Context(), query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query redemptions", "details": err.Error()})
		return
	}
	defer rows.Close()

	redemptions := []models.RedemptionResponse{}
	for rows.Next() {
		var rd models.Redemption
		var rewardTitle string

		err := rows.Scan(
			&rd.ID,
			&rd.RewardID,
			&rewardTitle,
			&rd.UserID,
			&rd.PointsSpent,
			&rd.Status,
			&rd.CreatedAt,
			&rd.ResolvedAt,
			&rd.ResolvedBy,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse redemption data", "details": err.Error()})
			return
		}

		redemptions = append(redemptions, rd.ToResponse(rewardTitle))
	}

	c.JSON(http.StatusOK, gin.H{
		"redemptions": redemptions,
		"count":       len(redemptions),
	})
}

// ResolveRedemption approves or rejects a pending redemption (parent
// only). Approval makes the snapshotted points_spent count against the
// requester's balance; rejection deducts nothing. A redemption is terminal
// once resolved and any further resolve attempt gets a 409.
func ResolveRedemption(hub *realtime.Hub) gin.HandlerFunc {
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

		resolverID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		redemptionID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid redemption ID format"})
			return
		}

		var req ResolveRedemptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback(c.Request.Context())

		var (
			requesterID uuid.UUID
			pointsSpent int
			status      string
			rewardTitle string
		)
		err = tx.QueryRow(c.Request.Context(), `
			SELECT rd.user_id, rd.points_spent, rd.status, r.title
			FROM redemptions rd
			JOIN rewards r ON rd.reward_id = r.id
			WHERE rd.id = $1 AND r.family_id = $2
		`, redemptionID, familyID).Scan(&requesterID, &pointsSpent, &status, &rewardTitle)

		if err != nil {
			if err.Error() == "no rows in result set" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Redemption not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query redemption", "details": err.Error()})
			}
			return
		}

		if !models.CanResolve(status) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Redemption has already been resolved",
				"status": status,
			})
			return
		}

		newStatus := models.RedemptionRejected
		if req.Approved {
			newStatus = models.RedemptionApproved
		}

		_, err = tx.Exec(c.Request.Context(), `
			UPDATE redemptions
			SET status = $1,
				resolved_at = NOW(),
				resolved_by = $2
			WHERE id = $3
		`, newStatus, resolverID, redemptionID)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve redemption", "details": err.Error()})
			return
		}

		// No points row is written on either path: approval counts via the
		// status flip alone, because the balance is recomputed from
		// approved redemptions on every read.
		var notifTitle, notifMessage string
		if req.Approved {
			notifTitle = "Redemption approved"
			notifMessage = "Your redemption of \"" + rewardTitle + "\" was approved"
		} else {
			notifTitle = "Redemption rejected"
			notifMessage = "Your redemption of \"" + rewardTitle + "\" was rejected; no points were deducted"
		}

		notifID := uuid.New()
		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO notifications (id, user_id, family_id, title, message, type, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
		`, notifID, requesterID, familyID, notifTitle, notifMessage, models.NotificationRedemptionResolved)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification", "details": err.Error()})
			return
		}

		if err = tx.Commit(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		hub.Push(requesterID, realtime.Event{
			Type:    models.NotificationRedemptionResolved,
			ID:      redemptionID,
			Title:   notifTitle,
			Message: notifMessage,
		})

		resp := gin.H{
			"message":       "Redemption resolved",
			"redemption_id": redemptionID,
			"status":        newStatus,
		}
		if req.Approved {
			resp["points_deducted"] = pointsSpent
		}
		c.JSON(http.StatusOK, resp)
	}
}
