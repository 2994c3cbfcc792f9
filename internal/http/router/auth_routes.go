package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/Zim95/browseterm-server/internal/domain/types"
	ctrl "github.com/Zim95/browseterm-server/internal/http/controllers/auth"
	mw "github.com/Zim95/browseterm-server/internal/http/middlewares"
	"github.com/Zim95/browseterm-server/internal/rate"
)

// registerAuthRoutes registra login, logout y la configuración de login.
func registerAuthRoutes(r chi.Router, c *ctrl.Controllers, limiter rate.Limiter) {
	r.Group(func(r chi.Router) {
		r.Use(mw.Stack(
			mw.WithNoStore(),
			mw.WithRateLimit(mw.RateLimitConfig{Limiter: limiter}),
		))

		// POST /google-token-exchange, POST /github-token-exchange
		for _, p := range types.Providers {
			r.Post("/"+p.String()+"-token-exchange", c.Login.TokenExchange(p))
		}
	})

	// POST /logout
	r.With(mw.WithNoStore()).Post("/logout", c.Logout.Logout)

	// GET /login
	r.With(mw.WithNoStore()).Get("/login", c.Config.GetConfig)
}
