package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/familytask/familytask-go/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(jwtService), func(c *gin.Context) {
		userID, _ := GetAuthUserID(c)
		familyID, _ := GetAuthFamilyID(c)
		username, _ := GetAuthUsername(c)
		isParent, _ := GetAuthIsParent(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":   userID,
			"family_id": familyID,
			"username":  username,
			"is_parent": isParent,
		})
	})
	return r
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r := testRouter(auth.NewJWTService("secret", "familytask", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBadFormat(t *testing.T) {
	r := testRouter(auth.NewJWTService("secret", "familytask", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r := testRouter(auth.NewJWTService("secret", "familytask", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	svc := auth.NewJWTService("secret", "familytask", -time.Minute)
	r := testRouter(svc)

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), "mika", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireAuthValidToken(t *testing.T) {
	svc := auth.NewJWTService("secret", "familytask", time.Hour)
	r := testRouter(svc)

	userID := uuid.New()
	token, err := svc.GenerateToken(userID, uuid.New(), "mika", true)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"username":"mika"`)
	assert.Contains(t, w.Body.String(), `"is_parent":true`)
}
