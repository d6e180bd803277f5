package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient("", "from@example.com").Configured())
	assert.True(t, NewClient("re_key", "from@example.com").Configured())
}

func TestSendTicketAck(t *testing.T) {
	var got resendEmail
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("re_test", "support@familytask.app", WithAPIURL(srv.URL))

	err := c.SendTicketAck(context.Background(), "parent@example.com", "Sam", 42)
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", gotAuth)
	assert.Equal(t, "support@familytask.app", got.From)
	assert.Equal(t, []string{"parent@example.com"}, got.To)
	assert.Contains(t, got.Subject, "#42")
	assert.Contains(t, got.Text, "Sam")
}

func TestSendSupportNotice(t *testing.T) {
	var got resendEmail

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("re_test", "support@familytask.app", WithAPIURL(srv.URL))

	err := c.SendSupportNotice(context.Background(), "inbox@familytask.app", 7, "Sam", "parent@example.com", "billing", "Please help")
	require.NoError(t, err)

	assert.Equal(t, []string{"inbox@familytask.app"}, got.To)
	assert.Contains(t, got.Subject, "#7")
	assert.Contains(t, got.Subject, "billing")
	assert.Contains(t, got.Text, "Please help")
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient("re_test", "support@familytask.app", WithAPIURL(srv.URL))

	err := c.SendTicketAck(context.Background(), "parent@example.com", "Sam", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSendUnconfigured(t *testing.T) {
	c := NewClient("", "support@familytask.app")
	err := c.SendTicketAck(context.Background(), "parent@example.com", "Sam", 1)
	assert.Error(t, err)
}
