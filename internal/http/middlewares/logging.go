package middlewares

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// statusRecorder guarda status y bytes escritos.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.status = code
	s.wroteHeader = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// WithLogging deja en el contexto un logger con request_id, method y path, y al
// terminar emite una línea por request. Las rutas en quiet (probes, /metrics)
// se loguean en debug salvo que fallen con 5xx.
func WithLogging(quiet ...string) Middleware {
	quietPaths := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		quietPaths[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := GetRequestID(r.Context())
			if requestID == "" {
				requestID = w.Header().Get("X-Request-ID")
			}
			reqLog := logger.L().With(
				logger.RequestID(requestID),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(logger.ToContext(r.Context(), reqLog)))

			level := levelFor(rec.status)
			if _, ok := quietPaths[r.URL.Path]; ok && rec.status < 500 {
				level = zapcore.DebugLevel
			}
			if ce := reqLog.Check(level, "request completed"); ce != nil {
				ce.Write(
					logger.Status(rec.status),
					logger.Bytes(rec.bytes),
					logger.DurationMs(time.Since(start).Milliseconds()),
					logger.ClientIP(clientIP(r)),
					logger.UserAgent(r.UserAgent()),
				)
			}
		})
	}
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zap.ErrorLevel
	case status >= 400:
		return zap.WarnLevel
	default:
		return zap.InfoLevel
	}
}
