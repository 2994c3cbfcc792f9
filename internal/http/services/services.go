// Package services es el composition root de los services HTTP.
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs, cookie)
//	handler := router.New(router.Deps{Controllers: ctrls, ...})
package services

import (
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/http/services/account"
	"github.com/Zim95/browseterm-server/internal/http/services/auth"
	"github.com/Zim95/browseterm-server/internal/http/services/health"
	"github.com/Zim95/browseterm-server/internal/oauth"
	"github.com/Zim95/browseterm-server/internal/security/state"
	"github.com/Zim95/browseterm-server/internal/session"
)

// Deps contiene todas las dependencias de los services.
type Deps struct {
	Users         repository.UserRepository
	Subscriptions repository.SubscriptionRepository
	Providers     *oauth.Registry
	Sessions      *session.Store
	State         *state.Signer
	VerifyState   bool
	Health        health.Deps
	Now           func() time.Time
}

// Services agrupa los services de todos los dominios.
type Services struct {
	Account account.Services
	Auth    auth.Services
	Health  health.Services
}

// New crea el agregador. Account se construye primero porque Auth lo usa.
func New(d Deps) Services {
	acc := account.NewServices(account.Deps{
		Users:         d.Users,
		Subscriptions: d.Subscriptions,
		Now:           d.Now,
	})
	return Services{
		Account: acc,
		Auth: auth.NewServices(auth.Deps{
			Providers:   d.Providers,
			Accounts:    acc,
			Sessions:    d.Sessions,
			State:       d.State,
			VerifyState: d.VerifyState,
		}),
		Health: health.NewServices(d.Health),
	}
}
