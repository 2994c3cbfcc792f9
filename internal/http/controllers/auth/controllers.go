// Package auth contiene los controllers de login y logout OAuth.
package auth

import (
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	svc "github.com/Zim95/browseterm-server/internal/http/services/auth"
)

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login  *LoginController
	Logout *LogoutController
	Config *ConfigController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services, cookie helpers.CookieConfig) *Controllers {
	return &Controllers{
		Login:  NewLoginController(s.Auth, cookie),
		Logout: NewLogoutController(s.Auth, cookie),
		Config: NewConfigController(s.Auth),
	}
}
