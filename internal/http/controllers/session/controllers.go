// Package session contiene los controllers de las rutas protegidas por la
// sesión. Todos asumen que SessionGate.Require ya corrió.
package session

import (
	"github.com/Zim95/browseterm-server/internal/http/services/account"
	"github.com/Zim95/browseterm-server/internal/http/services/auth"
)

// Controllers agrupa los controllers del dominio session.
type Controllers struct {
	Profile *ProfileController
}

// NewControllers crea el agregador de controllers session.
func NewControllers(accounts account.Services, a auth.Services) *Controllers {
	return &Controllers{
		Profile: NewProfileController(accounts.Subscriptions, a.Auth),
	}
}
