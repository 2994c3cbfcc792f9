package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCookie_SessionAttributes(t *testing.T) {
	cfg := CookieConfig{Name: "session", SameSite: "Strict", Secure: true}
	ck := BuildCookie(cfg, "abc", 24*time.Hour)

	assert.Equal(t, 86400, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)

	s := ck.String()
	assert.Contains(t, s, "session=abc")
	assert.Contains(t, s, "Max-Age=86400")
	assert.Contains(t, s, "SameSite=Strict")
}

func TestBuildDeletionCookie(t *testing.T) {
	ck := BuildDeletionCookie(CookieConfig{Name: "session", SameSite: "strict", Secure: true})
	assert.Contains(t, ck.String(), "Max-Age=0")
	assert.Empty(t, ck.Value)
}

func TestReadJSON(t *testing.T) {
	var v struct{ Code string }

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	require.True(t, ReadJSON(httptest.NewRecorder(), r, &v))
	assert.Equal(t, "x", v.Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	assert.False(t, ReadJSON(rec, r, &v))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`code=x`))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	assert.False(t, ReadJSON(rec, r, &v))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, SessionCookie(r, "session"))

	r.AddCookie(&http.Cookie{Name: "session", Value: "id-1"})
	assert.Equal(t, "id-1", SessionCookie(r, "session"))
}
