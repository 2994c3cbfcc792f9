// Package session contiene DTOs de los endpoints protegidos por la sesión.
package session

import (
	"github.com/Zim95/browseterm-server/internal/domain/repository"
)

// ProfileResponse es la respuesta de GET /api/profile.
type ProfileResponse struct {
	UserInfo                repository.User         `json:"user_info"`
	SubscriptionInfo        repository.Subscription `json:"subscription_info"`
	CurrentSubscriptionPlan repository.Plan         `json:"current_subscription_plan"`
}

// SubscriptionsResponse es la respuesta de GET /api/subscriptions.
type SubscriptionsResponse struct {
	Plans                   []repository.Plan       `json:"plans"`
	SubscriptionInfo        repository.Subscription `json:"subscription_info"`
	CurrentSubscriptionPlan repository.Plan         `json:"current_subscription_plan"`
}

// StatusResponse es la respuesta de GET /api/session.
type StatusResponse struct {
	IsValid bool  `json:"is_valid"`
	TTL     int64 `json:"ttl"`
}
