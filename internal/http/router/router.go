// Package router arma el árbol de rutas chi con la cadena de middlewares.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/Zim95/browseterm-server/internal/http/controllers"
	httperrors "github.com/Zim95/browseterm-server/internal/http/errors"
	mw "github.com/Zim95/browseterm-server/internal/http/middlewares"
	"github.com/Zim95/browseterm-server/internal/metrics"
	"github.com/Zim95/browseterm-server/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Controllers *controllers.Controllers
	Gate        *mw.SessionGate

	// Opcionales
	RateLimiter    rate.Limiter // nil = sin rate limiting
	CORSOrigins    []string
	TrustedProxies []netip.Prefix // vacío = se ignora X-Forwarded-For
	MetricsHandler http.Handler // nil = sin /metrics
	MetricsPath    string       // default "/metrics"
}

// New construye el handler raíz.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	metricsPath := deps.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	// El primero es el más externo
	r.Use(mw.Stack(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithClientIP(deps.TrustedProxies),
		mw.WithSecurityHeaders(),
		metrics.WithMetrics,
		mw.WithLogging("/healthz", "/readyz", metricsPath),
		mw.WithCORS(deps.CORSOrigins),
	))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	c := deps.Controllers
	registerHealthRoutes(r, c.Health)
	registerAuthRoutes(r, c.Auth, deps.RateLimiter)
	registerSessionRoutes(r, c.Session, deps.Gate)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, metricsPath, deps.MetricsHandler)
	}
	return r
}
