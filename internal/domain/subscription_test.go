package domain

import (
	"testing"
	"time"
)

func TestSubscriptionIsActive(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 5)

	cases := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"active", Subscription{Status: SubscriptionStatusActive}, true},
		{"trial vigente", Subscription{Status: SubscriptionStatusTrial, TrialEnd: &future}, true},
		{"trial sin fecha", Subscription{Status: SubscriptionStatusTrial}, true},
		{"trial vencido", Subscription{Status: SubscriptionStatusTrial, TrialEnd: &past}, false},
		{"cancelada", Subscription{Status: SubscriptionStatusCanceled}, false},
		{"expirada", Subscription{Status: SubscriptionStatusExpired}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sub.IsActive(now); got != tc.want {
				t.Fatalf("IsActive() = %v, want %v", got, tc.want)
			}
		})
	}
}
