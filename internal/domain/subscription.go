package domain

import "time"

// Estados de una suscripción semanal.
const (
	SubscriptionStatusTrial    = "trial"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

type Subscription struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Status     string     `json:"status"`
	TrialEnd   *time.Time `json:"trial_end,omitempty"`
	NextCharge *time.Time `json:"next_charge,omitempty"`
	ProviderID string     `json:"provider_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsActive indica si la suscripción habilita envíos en la fecha dada.
func (s Subscription) IsActive(now time.Time) bool {
	switch s.Status {
	case SubscriptionStatusActive:
		return true
	case SubscriptionStatusTrial:
		return s.TrialEnd == nil || !s.TrialEnd.Before(now)
	default:
		return false
	}
}
