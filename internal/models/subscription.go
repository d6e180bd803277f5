package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription mirrors the payment provider's subscription state for a
// user. It is written only by the verified billing webhook; the user id is
// carried in the webhook's custom metadata.
type Subscription struct {
	ID                     uuid.UUID  `json:"id" db:"id"`
	UserID                 uuid.UUID  `json:"user_id" db:"user_id"`
	FamilyID               uuid.UUID  `json:"family_id" db:"family_id"`
	ProviderSubscriptionID string     `json:"provider_subscription_id" db:"provider_subscription_id"`
	ProviderCustomerID     *string    `json:"provider_customer_id,omitempty" db:"provider_customer_id"`
	Plan                   string     `json:"plan" db:"plan"`
	Status                 string     `json:"status" db:"status"` // provider status: active, cancelled, expired, ...
	RenewsAt               *time.Time `json:"renews_at,omitempty" db:"renews_at"`
	EndsAt                 *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// PremiumActive reports whether this subscription currently grants premium
func (s *Subscription) PremiumActive() bool {
	switch s.Status {
	case "active", "on_trial", "cancelled":
		// A cancelled subscription stays premium until ends_at passes
		if s.Status == "cancelled" && s.EndsAt != nil {
			return s.EndsAt.After(time.Now())
		}
		return true
	}
	return false
}
