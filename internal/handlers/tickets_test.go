package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/familytask/familytask-go/internal/email"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func ticketRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mailer := email.NewClient("", "support@familytask.app")
	r.POST("/api/support/tickets", withStubDB(), CreateTicket(mailer, "", zap.NewNop()))
	r.PATCH("/api/support/tickets/:id", withStubDB(), UpdateTicket)
	return r
}

func postJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTicketMissingFields(t *testing.T) {
	r := ticketRouter()

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing email", `{"name":"Sam","message":"help"}`},
		{"missing message", `{"name":"Sam","email":"sam@example.com"}`},
		{"missing name", `{"email":"sam@example.com","message":"help"}`},
		{"malformed email", `{"name":"Sam","email":"not-an-email","message":"help"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, http.MethodPost, "/api/support/tickets", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateTicketInvalidID(t *testing.T) {
	r := ticketRouter()

	w := postJSON(r, http.MethodPatch, "/api/support/tickets/abc", `{"status":"open"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTicketInvalidStatus(t *testing.T) {
	r := ticketRouter()

	w := postJSON(r, http.MethodPatch, "/api/support/tickets/1", `{"status":"done"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "status")
}

func TestUpdateTicketInvalidPriority(t *testing.T) {
	r := ticketRouter()

	w := postJSON(r, http.MethodPatch, "/api/support/tickets/1", `{"priority":"critical"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "priority")
}

func TestUpdateTicketNothingToUpdate(t *testing.T) {
	r := ticketRouter()

	w := postJSON(r, http.MethodPatch, "/api/support/tickets/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
