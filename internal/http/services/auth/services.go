// Package auth contiene el login OAuth, el logout y la validación de sesiones.
package auth

import (
	"github.com/Zim95/browseterm-server/internal/http/services/account"
	"github.com/Zim95/browseterm-server/internal/oauth"
	"github.com/Zim95/browseterm-server/internal/security/state"
	"github.com/Zim95/browseterm-server/internal/session"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Providers *oauth.Registry
	Accounts  account.Services
	Sessions  *session.Store
	State     *state.Signer // nil = sin state firmado
	// VerifyState exige un state válido en el token exchange. Requiere State.
	VerifyState bool
}

// Services agrupa los services del dominio auth.
type Services struct {
	Auth *AuthenticationService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{
		Auth: NewAuthenticationService(d),
	}
}
