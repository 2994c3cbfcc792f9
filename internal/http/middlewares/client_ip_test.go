package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zim95/browseterm-server/internal/rate"
)

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.7 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "10.0.0.0/8", got[0].String())
	assert.Equal(t, "192.168.1.7/32", got[1].String())
	assert.Equal(t, "::1/128", got[2].String())

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	require.Error(t, err)
}

func TestWithClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		trusted bool
		remote  string
		xff     string
		want    string
	}{
		{"no proxies ignores header", false, "203.0.113.9:4000", "1.2.3.4", "203.0.113.9"},
		{"untrusted peer ignores header", true, "203.0.113.9:4000", "1.2.3.4", "203.0.113.9"},
		{"trusted peer uses header", true, "10.0.0.2:4000", "198.51.100.7", "198.51.100.7"},
		{"rightmost untrusted hop wins", true, "10.0.0.2:4000", "1.2.3.4, 198.51.100.7, 10.0.0.5", "198.51.100.7"},
		{"all hops trusted falls back to peer", true, "10.0.0.2:4000", "10.0.0.9", "10.0.0.2"},
		{"no header uses peer", true, "10.0.0.2:4000", "", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxies := trusted
			if !tt.trusted {
				proxies = nil
			}
			var got string
			h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = clientIP(r)
			}), WithClientIP(proxies))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithRateLimit_ForwardedForCannotRotateKey(t *testing.T) {
	lim := rate.NewMemoryLimiter(2, time.Minute)
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		WithClientIP(nil), WithRateLimit(RateLimitConfig{Limiter: lim}))

	codes := make([]int, 0, 3)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/github-token-exchange", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
