package middleware

import (
	"net/http"
	"strings"

	"github.com/familytask/familytask-go/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	authUserKey     = "auth_user_id"
	authFamilyKey   = "auth_family_id"
	authUsernameKey = "auth_username"
	authIsParentKey = "auth_is_parent"
)

// RequireAuth validates the JWT token and sets user context
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(authUserKey, claims.UserID)
		c.Set(authFamilyKey, claims.FamilyID)
		c.Set(authUsernameKey, claims.Username)
		c.Set(authIsParentKey, claims.IsParent)

		c.Next()
	}
}

// RequireParent ensures the authenticated user is a parent. The role is
// re-read from the users table on every call: the token's is_parent claim
// is a rendering hint, not an authorization source.
func RequireParent(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		var isParent bool
		err := pool.QueryRow(c.Request.Context(),
			`SELECT is_parent FROM users WHERE id = $1 AND is_active = true`,
			userID,
		).Scan(&isParent)

		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Parent access required"})
			c.Abort()
			return
		}

		if !isParent {
			c.JSON(http.StatusForbidden, gin.H{"error": "Parent access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAuthUserID retrieves the authenticated user ID from context
func GetAuthUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(authUserKey)
	if !exists {
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

// GetAuthFamilyID retrieves the authenticated user's family ID from context
func GetAuthFamilyID(c *gin.Context) (uuid.UUID, bool) {
	familyID, exists := c.Get(authFamilyKey)
	if !exists {
		return uuid.Nil, false
	}
	return familyID.(uuid.UUID), true
}

// GetAuthUsername retrieves the authenticated username from context
func GetAuthUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(authUsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetAuthIsParent retrieves the is_parent hint carried by the token. Do
// not gate privileged operations on this alone; use RequireParent.
func GetAuthIsParent(c *gin.Context) (bool, bool) {
	isParent, exists := c.Get(authIsParentKey)
	if !exists {
		return false, false
	}
	return isParent.(bool), true
}
