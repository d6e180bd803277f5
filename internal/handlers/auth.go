package handlers

import (
	"net/http"
	"strings"

	"github.com/familytask/familytask-go/internal/auth"
	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IsParent bool      `json:"is_parent"`
	FamilyID uuid.UUID `json:"family_id"`
}

// Login authenticates a user and returns a JWT token
func Login(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		// Normalize username to lowercase
		username := strings.ToLower(strings.TrimSpace(req.Username))

		query := `
			SELECT id, family_id, username, password_hash, is_parent, is_active
			FROM users
			WHERE LOWER(username) = $1
		`

		var userID uuid.UUID
		var familyID uuid.UUID
		var dbUsername string
		var passwordHash *string
		var isParent bool
		var isActive bool

		err := db.QueryRow(c.Request.Context(), query, username).Scan(
			&userID, &familyID, &dbUsername, &passwordHash, &isParent, &isActive,
		)

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		if !isActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Login is disabled for this user"})
			return
		}

		if passwordHash == nil || *passwordHash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Password authentication not configured for this user"})
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(*passwordHash), []byte(req.Password))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		// last_login is informational; login succeeds even if this fails
		_, _ = db.Exec(c.Request.Context(),
			"UPDATE users SET last_login = NOW() WHERE id = $1", userID)

		token, err := jwtService.GenerateToken(userID, familyID, dbUsername, isParent)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token:    token,
			UserID:   userID,
			Username: dbUsername,
			IsParent: isParent,
			FamilyID: familyID,
		})
	}
}
