package health

import (
	"net/http"

	dto "github.com/Zim95/browseterm-server/internal/http/dto/health"
	"github.com/Zim95/browseterm-server/internal/http/helpers"
	svc "github.com/Zim95/browseterm-server/internal/http/services/health"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// HealthController maneja las rutas de health check.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Readyz maneja GET /readyz.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	response := c.service.Check(ctx)
	if response.Version != "" {
		w.Header().Set("X-Service-Version", response.Version)
	}

	statusCode := http.StatusOK
	if response.Status == "unavailable" {
		statusCode = http.StatusServiceUnavailable
	}

	log.Debug("health check completed",
		logger.String("status", response.Status),
		logger.Int("components_count", len(response.Components)),
	)
	helpers.WriteJSON(w, statusCode, response)
}

// Healthz maneja GET /healthz: liveness sin dependencias.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Echo maneja POST /echo.
func (c *HealthController) Echo(w http.ResponseWriter, r *http.Request) {
	var req dto.EchoRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.EchoResponse{Message: req.Message})
}
