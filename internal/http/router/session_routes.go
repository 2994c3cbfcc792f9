package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/Zim95/browseterm-server/internal/http/controllers/session"
	mw "github.com/Zim95/browseterm-server/internal/http/middlewares"
)

// registerSessionRoutes registra /api/*, todo detrás del gate de sesión.
func registerSessionRoutes(r chi.Router, c *ctrl.Controllers, gate *mw.SessionGate) {
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.Stack(gate.Require(), mw.WithNoStore()))

		r.Get("/profile", c.Profile.Profile)
		r.Get("/subscriptions", c.Profile.Subscriptions)
		r.Get("/session", c.Profile.Status)
	})
}
