package handlers

import (
	"net/http"

	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/familytask/familytask-go/internal/points"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListUsers returns the family roster
func ListUsers(c *gin.Context) {
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

	query := `
		SELECT id, username, display_name, is_parent, is_active
		FROM users
		WHERE family_id = $1
		ORDER BY display_name ASC
	`

	rows, err := db.Query(c.Request.Context(), query, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users", "details": err.Error()})
		return
	}
	defer rows.Close()

	users := []models.UserListResponse{}
	for rows.Next() {
		var user models.User

		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.DisplayName,
			&user.IsParent,
			&user.IsActive,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user data", "details": err.Error()})
			return
		}

		users = append(users, user.ToListResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUserPoints returns the recomputed balance for a user plus the
// earned/spent breakdown. The balance is never stored, only derived.
func GetUserPoints(c *gin.Context) {
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

	userIDParam := c.Param("id")
	userID, err := uuid.Parse(userIDParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var displayName string
	err = db.QueryRow(c.Request.Context(),
		"SELECT display_name FROM users WHERE id = $1 AND family_id = $2",
		userID, familyID,
	).Scan(&displayName)

	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query user", "details": err.Error()})
		}
		return
	}

	src := points.NewDBSource(db)
	earned, spent, balance, err := points.Breakdown(c.Request.Context(), src, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.PointsBalance{
		UserID:      userID,
		DisplayName: displayName,
		Earned:      earned,
		Spent:       spent,
		Balance:     balance,
	})
}
