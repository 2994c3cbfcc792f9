// Package account resuelve la cuenta local y la suscripción de un usuario
// autenticado por OAuth.
package account

import (
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
)

// Deps contiene las dependencias para crear los services account.
type Deps struct {
	Users         repository.UserRepository
	Subscriptions repository.SubscriptionRepository
	Now           func() time.Time // nil = time.Now().UTC()
}

// Services agrupa los services del dominio account.
type Services struct {
	Users         *UserResolver
	Subscriptions *SubscriptionResolver
}

// NewServices crea el agregador de services account.
func NewServices(d Deps) Services {
	return Services{
		Users:         NewUserResolver(d.Users),
		Subscriptions: NewSubscriptionResolver(d.Subscriptions, d.Now),
	}
}
