package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/familytask/familytask-go/internal/webhooks"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test"

// withStubDB satisfies the handlers' pool lookup for request paths that are
// decided before any query runs (signature, event-name, and payload checks).
func withStubDB() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", (*pgxpool.Pool)(nil))
		c.Next()
	}
}

func billingRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/webhooks/lemonsqueezy", withStubDB(), LemonSqueezyWebhook(secret, zap.NewNop()))
	return r
}

func postSigned(r *gin.Engine, path, header, secret string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if secret != "" {
		req.Header.Set(header, webhooks.Sign(secret, body))
	}
	r.ServeHTTP(w, req)
	return w
}

func TestBillingWebhookMissingSignature(t *testing.T) {
	r := billingRouter(testWebhookSecret)

	w := postSigned(r, "/api/webhooks/lemonsqueezy", "x-signature", "", []byte(`{}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBillingWebhookTamperedBody(t *testing.T) {
	r := billingRouter(testWebhookSecret)

	body := []byte(`{"meta":{"event_name":"subscription_created"}}`)
	sig := webhooks.Sign(testWebhookSecret, body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/lemonsqueezy",
		bytes.NewReader([]byte(`{"meta":{"event_name":"subscription_cancelled"}}`)))
	req.Header.Set("x-signature", sig)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBillingWebhookUnconfiguredSecret(t *testing.T) {
	// No secret configured: even a correctly self-signed request is
	// rejected; the endpoint never accepts anything.
	r := billingRouter("")

	body := []byte(`{"meta":{"event_name":"subscription_created"}}`)
	w := postSigned(r, "/api/webhooks/lemonsqueezy", "x-signature", testWebhookSecret, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBillingWebhookUnknownEventIgnored(t *testing.T) {
	r := billingRouter(testWebhookSecret)

	body := []byte(`{"meta":{"event_name":"order_created","custom_data":{"user_id":"ignored"}}}`)
	w := postSigned(r, "/api/webhooks/lemonsqueezy", "x-signature", testWebhookSecret, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestBillingWebhookMissingUserID(t *testing.T) {
	r := billingRouter(testWebhookSecret)

	body := []byte(`{"meta":{"event_name":"subscription_created","custom_data":{}}}`)
	w := postSigned(r, "/api/webhooks/lemonsqueezy", "x-signature", testWebhookSecret, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingWebhookMalformedJSON(t *testing.T) {
	r := billingRouter(testWebhookSecret)

	body := []byte(`not json`)
	w := postSigned(r, "/api/webhooks/lemonsqueezy", "x-signature", testWebhookSecret, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func resendRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/support-webhook", withStubDB(), ResendWebhook(secret, zap.NewNop()))
	return r
}

func TestResendWebhookMissingSignature(t *testing.T) {
	r := resendRouter(testWebhookSecret)

	w := postSigned(r, "/api/support-webhook", "resend-signature", "", []byte(`{}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResendWebhookUnknownEventIgnored(t *testing.T) {
	r := resendRouter(testWebhookSecret)

	body := []byte(`{"type":"contact.created","data":{}}`)
	w := postSigned(r, "/api/support-webhook", "resend-signature", testWebhookSecret, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestResendWebhookWrongSecret(t *testing.T) {
	r := resendRouter(testWebhookSecret)

	body := []byte(`{"type":"email.delivered","data":{"to":["a@b.c"]}}`)
	w := postSigned(r, "/api/support-webhook", "resend-signature", "other-secret", body)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
