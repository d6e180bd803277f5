package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// withStubAuth injects an authenticated identity without going through the
// JWT middleware.
func withStubAuth(userID, familyID uuid.UUID, isParent bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("auth_user_id", userID)
		c.Set("auth_family_id", familyID)
		c.Set("auth_username", "test")
		c.Set("auth_is_parent", isParent)
		c.Next()
	}
}

func taskRouter(userID, familyID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withStubDB(), withStubAuth(userID, familyID, true))
	r.POST("/api/tasks", CreateTask)
	r.GET("/api/tasks/:id", GetTask)
	r.PATCH("/api/tasks/:id", UpdateTask)
	return r
}

func TestCreateTaskRejectsNonPositivePoints(t *testing.T) {
	r := taskRouter(uuid.New(), uuid.New())

	cases := []struct {
		name string
		body string
	}{
		{"zero points", `{"title":"Dishes","points":0}`},
		{"negative points", `{"title":"Dishes","points":-5}`},
		{"missing points", `{"title":"Dishes"}`},
		{"missing title", `{"points":10}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, http.MethodPost, "/api/tasks", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetTaskInvalidID(t *testing.T) {
	r := taskRouter(uuid.New(), uuid.New())

	w := postJSON(r, http.MethodGet, "/api/tasks/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTaskRejectsNonPositivePoints(t *testing.T) {
	r := taskRouter(uuid.New(), uuid.New())

	w := postJSON(r, http.MethodPatch, "/api/tasks/"+uuid.NewString(), `{"points":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTasksRequireAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withStubDB())
	r.GET("/api/tasks/:id", GetTask)

	w := postJSON(r, http.MethodGet, "/api/tasks/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
