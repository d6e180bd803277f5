package handlers

import (
	"fmt"
	"net/http"

	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/familytask/familytask-go/internal/points"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListRewards returns the family's active rewards. Parents may pass
// ?all=true to include deactivated ones.
func ListRewards(c *gin.Context) {
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

	isParent, _ := middleware.GetAuthIsParent(c)
	includeInactive := isParent && c.Query("all") == "true"

	query := `
		SELECT id, family_id, title, description, points_required, is_active,
			created_at, updated_at
		FROM rewards
		WHERE family_id = $1
	`
	if !includeInactive {
		query += " AND is_active = true"
	}
	query += " ORDER BY points_required ASC, title ASC"

	rows, err := db.Query(c.Request.Context(), query, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query rewards", "details": err.Error()})
		return
	}
	defer rows.Close()

	rewards := []models.Reward{}
	for rows.Next() {
		var reward models.Reward

		err := rows.Scan(
			&reward.ID,
			&reward.FamilyID,
			&reward.Title,
			&reward.Description,
			&reward.PointsRequired,
			&reward.IsActive,
			&reward.CreatedAt,
			&reward.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse reward data", "details": err.Error()})
			return
		}

		rewards = append(rewards, reward)
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": rewards,
		"count":   len(rewards),
	})
}

// CreateReward creates a new reward (parent only)
func CreateReward(c *gin.Context) {
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

	var req models.RewardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	rewardID := uuid.New()
	_, err := db.Exec(c.Request.Context(), `
		INSERT INTO rewards (
			id, family_id, title, description, points_required, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
	`, rewardID, familyID, req.Title, req.Description, req.PointsRequired)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reward", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Reward created successfully",
		"reward_id": rewardID,
	})
}

// UpdateReward edits or deactivates a reward (parent only). Deactivation
// only hides the reward from the catalog; existing redemptions keep their
// snapshotted points_spent.
func UpdateReward(c *gin.Context) {
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

	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID format"})
		return
	}

	var req models.RewardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.PointsRequired != nil && *req.PointsRequired <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Points required must be greater than zero"})
		return
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}

	if req.Title != nil {
		args = append(args, *req.Title)
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", len(args)))
	}
	if req.Description != nil {
		args = append(args, *req.Description)
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", len(args)))
	}
	if req.PointsRequired != nil {
		args = append(args, *req.PointsRequired)
		setClauses = append(setClauses, fmt.Sprintf("points_required = $%d", len(args)))
	}
	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", len(args)))
	}

	args = append(args, rewardID)
	idPos := len(args)
	args = append(args, familyID)

	query := "UPDATE rewards SET "
	for i, clause := range setClauses {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id = $%d AND family_id = $%d", idPos, idPos+1)

	tag, err := db.Exec(c.Request.Context(), query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reward", "details": err.Error()})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Reward updated successfully",
		"reward_id": rewardID,
	})
}

// RedeemReward creates a pending redemption for the authenticated user,
// snapshotting the reward's current cost into points_spent. The balance
// check here is advisory: concurrent pending redemptions can still exceed
// the balance, and resolution decides what actually gets deducted.
func RedeemReward(c *gin.Context) {
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

	rewardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID format"})
		return
	}

	var (
		rewardTitle    string
		pointsRequired int
		isActive       bool
	)
	err = db.QueryRow(c.Request.Context(), `
		SELECT title, points_required, is_active
		FROM rewards
		WHERE id = $1 AND family_id = $2
	`, rewardID, familyID).Scan(&rewardTitle, &pointsRequired, &isActive)

	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query reward", "details": err.Error()})
		}
		return
	}

	if !isActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reward is not active"})
		return
	}

	balance, err := points.Balance(c.Request.Context(), points.NewDBSource(db), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance", "details": err.Error()})
		return
	}

	if balance < pointsRequired {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "Insufficient points",
			"points_available": balance,
			"points_required":  pointsRequired,
			"points_short":     pointsRequired - balance,
		})
		return
	}

	redemptionID := uuid.New()
	_, err = db.Exec(c.Request.Context(), `
		INSERT INTO redemptions (
			id, reward_id, user_id, points_spent, status, created_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
	`, redemptionID, rewardID, userID, pointsRequired, models.RedemptionPending)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create redemption", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Redemption requested",
		"redemption_id": redemptionID,
		"reward_title":  rewardTitle,
		"points_spent":  pointsRequired,
		"status":        models.RedemptionPending,
	})
}
