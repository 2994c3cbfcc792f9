// Package auth contiene DTOs de los endpoints de login/logout OAuth.
package auth

import (
	"github.com/Zim95/browseterm-server/internal/domain/repository"
)

// TokenExchangeRequest es el body de POST /{provider}-token-exchange.
// Provider se acepta por compatibilidad; manda el de la ruta.
type TokenExchangeRequest struct {
	Code     string `json:"code"`
	State    string `json:"state"`
	Provider string `json:"provider"`
}

// LoginResponse se devuelve junto con la cookie de sesión.
type LoginResponse struct {
	SessionID               string                  `json:"session_id"`
	UserInfo                repository.User         `json:"user_info"`
	SubscriptionInfo        repository.Subscription `json:"subscription_info"`
	CurrentSubscriptionPlan repository.Plan         `json:"current_subscription_plan"`
}
