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

	"github.com/Zim95/browseterm-server/internal/cache/cachetest"
	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/session"
)

// storeAuth expone session.Store con la interfaz del gate.
type storeAuth struct{ s *session.Store }

func (a storeAuth) ValidateSession(ctx context.Context, id string) (session.Validation, error) {
	return a.s.Validate(ctx, id)
}

func (a storeAuth) ExtendSession(ctx context.Context, id string, ttl time.Duration) bool {
	return a.s.Extend(ctx, id, ttl)
}

func newGate(t *testing.T, policy session.FaultPolicy) (*SessionGate, *session.Store, *cachetest.Fake) {
	t.Helper()
	fc := cachetest.New()
	store := session.NewStore(fc, session.Config{FaultPolicy: policy})
	return NewSessionGate(storeAuth{store}, SessionGateConfig{}), store, fc
}

func sessionData() session.Data {
	return session.Data{
		UserInfo:                repository.User{ID: 42, ProviderID: "123456"},
		SubscriptionInfo:        repository.Subscription{ID: 7, UserID: 42, SubscriptionTypeID: 1},
		CurrentSubscriptionPlan: repository.Plan{ID: 1, Type: repository.PlanTypeFree},
	}
}

func countingHandler(calls *int, seen **SessionContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if seen != nil {
			*seen = GetSessionContext(r.Context())
		}
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestSessionGate_MissingCookieRedirects(t *testing.T) {
	gate, _, _ := newGate(t, session.FaultAbsent)
	calls := 0
	h := gate.Require()(countingHandler(&calls, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, 0, calls)
}

func TestSessionGate_UnknownSessionRedirects(t *testing.T) {
	gate, _, _ := newGate(t, session.FaultAbsent)
	calls := 0
	h := gate.Require()(countingHandler(&calls, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "nonexistent"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, 0, calls)
}

func TestSessionGate_ExpiredSessionIsReapedOnce(t *testing.T) {
	gate, store, fc := newGate(t, session.FaultAbsent)
	id, err := store.Create(context.Background(), sessionData())
	require.NoError(t, err)
	fc.SetTTL(0)

	calls := 0
	h := gate.Require()(countingHandler(&calls, nil))
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, fc.DeleteCalls())
}

func TestSessionGate_ValidSessionSlidesAndInjects(t *testing.T) {
	gate, store, _ := newGate(t, session.FaultAbsent)
	ctx := context.Background()
	id, err := store.Create(ctx, sessionData())
	require.NoError(t, err)
	require.InDelta(t, 86400, store.TTL(ctx, id), 1)

	calls := 0
	var seen *SessionContext
	h := gate.Require()(countingHandler(&calls, &seen))
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// el resultado del handler se propaga sin cambios
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, calls)
	require.NotNil(t, seen)
	assert.Equal(t, id, seen.SessionID)
	assert.Equal(t, int64(42), seen.UserInfo.ID)
	assert.Equal(t, int64(7), seen.SubscriptionInfo.ID)
	assert.Equal(t, repository.PlanTypeFree, seen.CurrentSubscriptionPlan.Type)
	assert.Equal(t, int64(1800), seen.TTL)

	assert.InDelta(t, 1800, store.TTL(ctx, id), 1)
	got := store.Get(ctx, id)
	require.NotNil(t, got)
	assert.Equal(t, sessionData(), *got)
}

func TestSessionGate_StoreFaultPolicies(t *testing.T) {
	t.Run("absent redirects", func(t *testing.T) {
		gate, _, fc := newGate(t, session.FaultAbsent)
		fc.TTLErr = errors.New("connection refused")

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
		rec := httptest.NewRecorder()
		calls := 0
		gate.Require()(countingHandler(&calls, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("fail answers 503", func(t *testing.T) {
		gate, _, fc := newGate(t, session.FaultFail)
		fc.TTLErr = errors.New("connection refused")

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
		rec := httptest.NewRecorder()
		calls := 0
		gate.Require()(countingHandler(&calls, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "SESSION_STORE_UNAVAILABLE")
		assert.Equal(t, 0, calls)
	})
}

func TestSessionGate_Authenticate(t *testing.T) {
	gate, store, _ := newGate(t, session.FaultAbsent)
	id, err := store.Create(context.Background(), sessionData())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sc, ok, err := gate.Authenticate(req)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, sc)

	req.AddCookie(&http.Cookie{Name: "session", Value: id})
	sc, ok, err = gate.Authenticate(req)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(42), sc.UserInfo.ID)
}
