// Package controllers es el composition root de los controllers HTTP.
package controllers

import (
	"github.com/Zim95/browseterm-server/internal/http/controllers/auth"
	"github.com/Zim95/browseterm-server/internal/http/controllers/health"
	"github.com/Zim95/browseterm-server/internal/http/controllers/session"
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	"github.com/Zim95/browseterm-server/internal/http/services"
)

// Controllers agrupa los controllers de todos los dominios.
type Controllers struct {
	Auth    *auth.Controllers
	Session *session.Controllers
	Health  *health.Controllers
}

// New crea el agregador inyectando los services.
func New(s services.Services, cookie helpers.CookieConfig) *Controllers {
	return &Controllers{
		Auth:    auth.NewControllers(s.Auth, cookie),
		Session: session.NewControllers(s.Account, s.Auth),
		Health:  health.NewControllers(s.Health),
	}
}
