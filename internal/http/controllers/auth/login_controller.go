package auth

import (
	"errors"
	"net/http"

	"github.com/Zim95/browseterm-server/internal/domain/types"
	dto "github.com/Zim95/browseterm-server/internal/http/dto/auth"
	httperrors "github.com/Zim95/browseterm-server/internal/http/errors"
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	svc "github.com/Zim95/browseterm-server/internal/http/services/auth"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// LoginController maneja POST /{provider}-token-exchange.
type LoginController struct {
	service *svc.AuthenticationService
	cookie  helpers.CookieConfig
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service *svc.AuthenticationService, cookie helpers.CookieConfig) *LoginController {
	return &LoginController{service: service, cookie: cookie}
}

// TokenExchange devuelve el handler del proveedor dado. El proveedor sale de
// la ruta; el campo "provider" del body se ignora.
func (c *LoginController) TokenExchange(provider types.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.From(ctx).With(
			logger.Layer("controller"),
			logger.Op("LoginController.TokenExchange"),
			logger.Provider(provider.String()),
		)

		var req dto.TokenExchangeRequest
		if !helpers.ReadJSON(w, r, &req) {
			return
		}

		resp, err := c.service.Login(ctx, provider, req)
		if err != nil {
			log.Debug("login failed", logger.Err(err))
			writeLoginError(w, err)
			return
		}

		http.SetCookie(w, helpers.BuildCookie(c.cookie, resp.SessionID, c.service.SessionMaxAge()))
		helpers.WriteJSON(w, http.StatusOK, resp)
	}
}

// ─── Helpers ───

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrUnknownProvider):
		httperrors.WriteError(w, httperrors.ErrUnknownProvider)

	case errors.Is(err, svc.ErrMissingCode):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("code es obligatorio"))

	case errors.Is(err, svc.ErrInvalidState):
		httperrors.WriteError(w, httperrors.ErrInvalidState)

	case errors.Is(err, svc.ErrAuthProvider):
		httperrors.WriteError(w, httperrors.ErrAuthProvider)

	case errors.Is(err, svc.ErrSessionCreation):
		httperrors.WriteError(w, httperrors.ErrSessionCreation.WithCause(err))

	case errors.Is(err, svc.ErrMisconfigured):
		httperrors.WriteError(w, httperrors.ErrMisconfigured.WithCause(err))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
