package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/", "/"},
		{"/api/profile", "/api/profile"},
		{"/github-token-exchange?x=1", "/github-token-exchange"},
		{"/users/42", "/users/:param"},
		{"/s/0b7e3c1a-4f5d-4a7e-9c3b-2d1e0f9a8b7c", "/s/:param"},
		{"/t/abcdefabcdefabcdef", "/t/:param"},
		{"/k/AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "/k/:param"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePath(tt.in), tt.in)
	}
}

// counterValue suma todas las series de la familia name que tengan los labels dados.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestRegisterAndRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := Register(Config{Registry: reg})
	require.NoError(t, err)

	RecordSessionCreated()
	RecordSessionValidation("valid")
	RecordSessionValidation("expired")
	RecordSessionExtended(false)
	RecordSessionDeleted("reaped")
	RecordOAuthExchange("github", "rejected", 20*time.Millisecond)
	RecordLogin("github", "ok")
	RecordRateLimitRejection("/github-token-exchange")

	assert.Equal(t, 1.0, counterValue(t, reg, "sessions_created_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "session_validations_total", map[string]string{"result": "expired"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "sessions_extended_total", map[string]string{"result": "missing"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "sessions_deleted_total", map[string]string{"reason": "reaped"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "oauth_exchanges_total", map[string]string{"provider": "github", "result": "rejected"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "logins_total", map[string]string{"result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "rate_limit_rejections_total", nil))

	// WithMetrics
	wrapped := WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "http_requests_total", map[string]string{"path": "/users/:param", "status": "418"}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sessions_created_total 1")
}
