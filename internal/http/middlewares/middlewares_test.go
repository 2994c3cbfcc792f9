package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zim95/browseterm-server/internal/observability/logger"
	"github.com/Zim95/browseterm-server/internal/rate"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "h") }),
		mk("A"), mk("B"), mk("C"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"A", "B", "C", "h"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}), WithRequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestWithRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), WithRecover())

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

func TestWithCORS(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), WithCORS([]string{"https://app.example.com/"}))

	req := httptest.NewRequest(http.MethodOptions, "/logout", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type stubLimiter struct {
	res rate.Result
	err error
	key string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (rate.Result, error) {
	s.key = key
	return s.res, s.err
}

func TestWithRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("rejects with retry-after", func(t *testing.T) {
		lim := &stubLimiter{res: rate.Result{Allowed: false, RetryAfter: 2500 * time.Millisecond, WindowTTL: time.Minute}}
		h := Chain(ok, WithRateLimit(RateLimitConfig{Limiter: lim}))

		req := httptest.NewRequest(http.MethodPost, "/github-token-exchange", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("Retry-After"))
		assert.Equal(t, "10.1.2.3|/github-token-exchange", lim.key)
	})

	t.Run("allows and reports remaining", func(t *testing.T) {
		lim := &stubLimiter{res: rate.Result{Allowed: true, Remaining: 4}}
		rec := httptest.NewRecorder()
		Chain(ok, WithRateLimit(RateLimitConfig{Limiter: lim})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("limiter error fails open", func(t *testing.T) {
		lim := &stubLimiter{err: errors.New("redis down")}
		rec := httptest.NewRecorder()
		Chain(ok, WithRateLimit(RateLimitConfig{Limiter: lim})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestWithSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), WithSecurityHeaders(), WithNoStore()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestWithLogging_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	status := http.StatusOK
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// el handler recibe el logger del request
		logger.From(r.Context()).Info("inside")
		w.WriteHeader(status)
	}), WithRequestID(), WithLogging("/healthz"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	status = http.StatusBadRequest
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/logout", nil))
	status = http.StatusServiceUnavailable
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 4)
	assert.Equal(t, zapcore.InfoLevel, done[0].Level)
	assert.Equal(t, zapcore.DebugLevel, done[1].Level)
	assert.Equal(t, zapcore.WarnLevel, done[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, done[3].Level)
	assert.Equal(t, int64(503), done[3].ContextMap()["status"])

	inside := logs.FilterMessage("inside").All()
	require.Len(t, inside, 4)
	assert.NotEmpty(t, inside[0].ContextMap()["request_id"])
	assert.Equal(t, "/api/profile", inside[0].ContextMap()["path"])
}
