package auth

import (
	"net/http"

	httperrors "github.com/Zim95/browseterm-server/internal/http/errors"
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	svc "github.com/Zim95/browseterm-server/internal/http/services/auth"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// ConfigController maneja GET /login.
type ConfigController struct {
	service *svc.AuthenticationService
}

// NewConfigController crea un nuevo controller de configuración de login.
func NewConfigController(service *svc.AuthenticationService) *ConfigController {
	return &ConfigController{service: service}
}

// GetConfig devuelve cómo iniciar el login con cada proveedor configurado.
func (c *ConfigController) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, err := c.service.LoginConfig(ctx)
	if err != nil {
		logger.From(ctx).Error("login config failed", logger.Layer("controller"), logger.Op("ConfigController.GetConfig"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, cfg)
}
