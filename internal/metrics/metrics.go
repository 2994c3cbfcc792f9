// Package metrics expone métricas Prometheus del servicio: HTTP, sesiones,
// intercambios OAuth y el pool de Postgres.
package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsOnce sync.Once
	metricsErr  error

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Sesiones
	sessionsCreatedTotal     prometheus.Counter
	sessionValidationsTotal  *prometheus.CounterVec
	sessionsExtendedTotal    *prometheus.CounterVec
	sessionsDeletedTotal     *prometheus.CounterVec
	oauthExchangesTotal      *prometheus.CounterVec
	oauthExchangeDuration    *prometheus.HistogramVec
	rateLimitRejectionsTotal *prometheus.CounterVec
	loginsTotal              *prometheus.CounterVec
)

// Config agrupa dependencias necesarias para exponer /metrics.
type Config struct {
	// Registry donde se registran los collectors. nil => registry global.
	Registry *prometheus.Registry
	// Pool opcional; si está, se exportan gauges del pool de Postgres.
	Pool func() *pgxpool.Pool
}

// Register inicializa las métricas y devuelve el handler para /metrics.
func Register(cfg Config) (http.Handler, error) {
	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.Registry != nil {
		reg, gatherer = cfg.Registry, cfg.Registry
	}

	metricsOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo por método y ruta",
		}, []string{"method", "path"})

		sessionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Sesiones creadas por login exitoso",
		})

		sessionValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_validations_total",
			Help: "Validaciones de sesión por resultado",
		}, []string{"result"}) // valid|missing|expired|corrupt|error

		sessionsExtendedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessions_extended_total",
			Help: "Renovaciones de TTL de sesión",
		}, []string{"result"}) // ok|missing

		sessionsDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessions_deleted_total",
			Help: "Sesiones eliminadas por motivo",
		}, []string{"reason"}) // explicit|reaped

		oauthExchangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_exchanges_total",
			Help: "Intercambios de código OAuth por proveedor y resultado",
		}, []string{"provider", "result"}) // ok|rejected|error

		oauthExchangeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oauth_exchange_duration_seconds",
			Help:    "Duración del intercambio código -> perfil",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"})

		rateLimitRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rechazadas por rate limiting",
		}, []string{"path"})

		loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Intentos de login por proveedor y resultado",
		}, []string{"provider", "result"})

		for _, c := range []prometheus.Collector{
			httpRequestsTotal, httpRequestDuration, httpInflight,
			sessionsCreatedTotal, sessionValidationsTotal, sessionsExtendedTotal, sessionsDeletedTotal,
			oauthExchangesTotal, oauthExchangeDuration, rateLimitRejectionsTotal, loginsTotal,
		} {
			if err := registerCollector(reg, c); err != nil {
				metricsErr = err
				return
			}
		}
	})
	if metricsErr != nil {
		return nil, metricsErr
	}

	if cfg.Pool != nil {
		if err := registerCollector(reg, newPoolCollector(cfg.Pool)); err != nil {
			return nil, err
		}
	}

	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), nil
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

// WithMetrics instrumenta requests HTTP (contadores, latencia, inflight).
// Si Register no fue llamado, devuelve next sin instrumentar.
func WithMetrics(next http.Handler) http.Handler {
	if httpRequestsTotal == nil || httpRequestDuration == nil || httpInflight == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		pathLabel := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, pathLabel).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, pathLabel).Dec()
			httpRequestDuration.WithLabelValues(method, pathLabel).Observe(time.Since(start).Seconds())

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE   = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

// normalizePath colapsa segmentos dinámicos (ids, uuids, tokens) a ":param"
// para no explotar la cardinalidad de labels.
func normalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	var out []string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 {
		return true
	}
	if uuidSegmentRE.MatchString(seg) || hexSegmentRE.MatchString(seg) || tokenSegmentRE.MatchString(seg) {
		return true
	}
	_, err := strconv.Atoi(seg)
	return err == nil
}
