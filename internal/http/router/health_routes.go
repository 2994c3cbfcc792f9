package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/Zim95/browseterm-server/internal/http/controllers/health"
)

func registerHealthRoutes(r chi.Router, c *ctrl.Controllers) {
	r.Get("/healthz", c.Health.Healthz)
	r.Get("/readyz", c.Health.Readyz)
	r.Post("/echo", c.Health.Echo)
}
