package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/familytask/familytask-go/internal/middleware"
	"github.com/familytask/familytask-go/internal/models"
	"github.com/familytask/familytask-go/internal/webhooks"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lemonSqueezyPayload is the slice of the provider's webhook body we act on
type lemonSqueezyPayload struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			UserID string `json:"user_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			CustomerID  json.Number `json:"customer_id"`
			ProductName string      `json:"product_name"`
			Status      string      `json:"status"`
			RenewsAt    *time.Time  `json:"renews_at"`
			EndsAt      *time.Time  `json:"ends_at"`
		} `json:"attributes"`
	} `json:"data"`
}

// subscriptionEvents are the event names that change subscription state.
// Anything else is acknowledged and ignored so the provider stops retrying.
var subscriptionEvents = map[string]bool{
	"subscription_created":   true,
	"subscription_updated":   true,
	"subscription_resumed":   true,
	"subscription_cancelled": true,
	"subscription_expired":   true,
}

// LemonSqueezyWebhook processes billing events from Lemon Squeezy. The
// x-signature header carries an HMAC-SHA256 hex digest of the raw body and
// is verified before anything is parsed. No secret means no event is ever
// accepted.
func LemonSqueezyWebhook(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}

		if !webhooks.Verify(secret, body, c.GetHeader("x-signature")) {
			logger.Warn("billing webhook rejected: invalid signature",
				zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}

		var payload lemonSqueezyPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		eventName := payload.Meta.EventName
		if !subscriptionEvents[eventName] {
			// Unknown events are fine; acknowledge so the provider
			// does not retry
			logger.Info("billing webhook: ignoring event", zap.String("event", eventName))
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}

		userID, err := uuid.Parse(payload.Meta.CustomData.UserID)
		if err != nil {
			logger.Warn("billing webhook: missing or invalid user id in custom_data",
				zap.String("event", eventName))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user id in webhook metadata"})
			return
		}

		var familyID uuid.UUID
		err = db.QueryRow(c.Request.Context(),
			"SELECT family_id FROM users WHERE id = $1", userID,
		).Scan(&familyID)

		if err != nil {
			logger.Warn("billing webhook: unknown user", zap.String("user_id", userID.String()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown user"})
			return
		}

		attrs := payload.Data.Attributes

		sub := models.Subscription{
			UserID:                 userID,
			FamilyID:               familyID,
			ProviderSubscriptionID: payload.Data.ID,
			Plan:                   "premium",
			Status:                 attrs.Status,
			RenewsAt:               attrs.RenewsAt,
			EndsAt:                 attrs.EndsAt,
		}
		if s := attrs.CustomerID.String(); s != "" {
			sub.ProviderCustomerID = &s
		}
		if attrs.ProductName != "" {
			sub.Plan = attrs.ProductName
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		defer tx.Rollback(c.Request.Context())

		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO subscriptions (
				id, user_id, family_id, provider_subscription_id, provider_customer_id,
				plan, status, renews_at, ends_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				provider_subscription_id = EXCLUDED.provider_subscription_id,
				provider_customer_id = EXCLUDED.provider_customer_id,
				plan = EXCLUDED.plan,
				status = EXCLUDED.status,
				renews_at = EXCLUDED.renews_at,
				ends_at = EXCLUDED.ends_at,
				updated_at = NOW()
		`, uuid.New(), sub.UserID, sub.FamilyID, sub.ProviderSubscriptionID,
			sub.ProviderCustomerID, sub.Plan, sub.Status, sub.RenewsAt, sub.EndsAt)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upsert subscription", "details": err.Error()})
			return
		}

		familyPlan := "free"
		if sub.PremiumActive() {
			familyPlan = "premium"
		}

		_, err = tx.Exec(c.Request.Context(),
			"UPDATE families SET plan = $1, updated_at = NOW() WHERE id = $2",
			familyPlan, familyID)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update family plan", "details": err.Error()})
			return
		}

		if err = tx.Commit(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		logger.Info("billing webhook processed",
			zap.String("event", eventName),
			zap.String("user_id", userID.String()),
			zap.String("family_plan", familyPlan))

		c.JSON(http.StatusOK, gin.H{
			"message":     "Webhook processed",
			"event":       eventName,
			"family_plan": familyPlan,
		})
	}
}

// resendWebhookPayload is the slice of Resend's event body we record
type resendWebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		To []string `json:"to"`
	} `json:"data"`
}

// emailEvents are the Resend event types worth keeping an audit trail of.
var emailEvents = map[string]bool{
	"email.sent":       true,
	"email.delivered":  true,
	"email.bounced":    true,
	"email.complained": true,
}

// ResendWebhook records email delivery events from Resend. Verification
// mirrors the billing webhook: HMAC-SHA256 hex over the raw body in the
// resend-signature header, rejected outright when unconfigured.
func ResendWebhook(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}

		if !webhooks.Verify(secret, body, c.GetHeader("resend-signature")) {
			logger.Warn("email webhook rejected: invalid signature",
				zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}

		var payload resendWebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		if !emailEvents[payload.Type] {
			c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
			return
		}

		recipient := ""
		if len(payload.Data.To) > 0 {
			recipient = payload.Data.To[0]
		}

		_, err = db.Exec(c.Request.Context(), `
			INSERT INTO email_events (id, provider_event, recipient, created_at)
			VALUES ($1, $2, $3, NOW())
		`, uuid.New(), payload.Type, recipient)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Event recorded",
			"event":   payload.Type,
		})
	}
}
