package handlers

import (
	"net/http"

	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/gin-gonic/gin"
)

// GetFamily returns the caller's family profile, including the plan kept
// in sync by the billing webhook.
func GetFamily(c *gin.Context) {
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

	var family models.Family
	err := db.QueryRow(c.Request.Context(), `
		SELECT id, slug, name, plan, status, created_at, updated_at, deleted_at
		FROM families
		WHERE id = $1
	`, familyID).Scan(
		&family.ID,
		&family.Slug,
		&family.Name,
		&family.Plan,
		&family.Status,
		&family.CreatedAt,
		&family.UpdatedAt,
		&family.DeletedAt,
	)

	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query family", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, family)
}
