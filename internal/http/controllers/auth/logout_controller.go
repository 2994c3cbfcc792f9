package auth

import (
	"net/http"

	"github.com/Zim95/browseterm-server/internal/http/helpers"
	svc "github.com/Zim95/browseterm-server/internal/http/services/auth"
)

// LogoutController maneja POST /logout.
type LogoutController struct {
	service *svc.AuthenticationService
	cookie  helpers.CookieConfig
}

// NewLogoutController crea un nuevo controller de logout.
func NewLogoutController(service *svc.AuthenticationService, cookie helpers.CookieConfig) *LogoutController {
	return &LogoutController{service: service, cookie: cookie}
}

// Logout borra la sesión de la cookie (si vino) y siempre limpia la cookie.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	id := helpers.SessionCookie(r, c.cookie.Name)
	resp := c.service.Logout(r.Context(), id)

	http.SetCookie(w, helpers.BuildDeletionCookie(c.cookie))
	helpers.WriteJSON(w, http.StatusOK, resp)
}
