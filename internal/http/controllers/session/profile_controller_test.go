package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zim95/browseterm-server/internal/cache"
	"github.com/Zim95/browseterm-server/internal/domain/repository"
	dto "github.com/Zim95/browseterm-server/internal/http/dto/session"
	"github.com/Zim95/browseterm-server/internal/http/middlewares"
	"github.com/Zim95/browseterm-server/internal/http/services/account"
	"github.com/Zim95/browseterm-server/internal/http/services/auth"
	sessionstore "github.com/Zim95/browseterm-server/internal/session"
	"github.com/Zim95/browseterm-server/internal/store/memory"
)

func newProfileController(t *testing.T) (*ProfileController, *sessionstore.Store) {
	t.Helper()
	st := memory.New(memory.DefaultPlans())
	sessions := sessionstore.NewStore(cache.NewMemory(""), sessionstore.Config{})
	subs := account.NewSubscriptionResolver(st.Subscriptions(), nil)
	svc := auth.NewAuthenticationService(auth.Deps{Sessions: sessions})
	return NewProfileController(subs, svc), sessions
}

func withSession(r *http.Request, id string) *http.Request {
	sc := &middlewares.SessionContext{
		SessionID:               id,
		UserInfo:                repository.User{ID: 42, ProviderID: "123456"},
		SubscriptionInfo:        repository.Subscription{ID: 7, UserID: 42, SubscriptionTypeID: 1},
		CurrentSubscriptionPlan: repository.Plan{ID: 1, Type: repository.PlanTypeFree},
	}
	return r.WithContext(middlewares.WithSessionContext(r.Context(), sc))
}

func TestProfile_ReadsSessionContext(t *testing.T) {
	c, _ := newProfileController(t)

	rec := httptest.NewRecorder()
	c.Profile(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/profile", nil), "sid"))
	require.Equal(t, http.StatusOK, rec.Code)

	var out dto.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(42), out.UserInfo.ID)
	assert.Equal(t, int64(7), out.SubscriptionInfo.ID)
	assert.Equal(t, repository.PlanTypeFree, out.CurrentSubscriptionPlan.Type)
}

func TestSubscriptions_ListsPlans(t *testing.T) {
	c, _ := newProfileController(t)

	rec := httptest.NewRecorder()
	c.Subscriptions(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil), "sid"))
	require.Equal(t, http.StatusOK, rec.Code)

	var out dto.SubscriptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Plans, 3)
	assert.Equal(t, int64(7), out.SubscriptionInfo.ID)
}

func TestStatus_UsesSessionIDFromContext(t *testing.T) {
	c, sessions := newProfileController(t)
	id, err := sessions.Create(context.Background(), sessionstore.Data{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Status(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/session", nil), id))
	require.Equal(t, http.StatusOK, rec.Code)

	var out dto.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.IsValid)
	assert.InDelta(t, 86400, out.TTL, 2)
}

func TestProfileRoutes_WithoutSessionAreUnauthorized(t *testing.T) {
	c, _ := newProfileController(t)

	for name, h := range map[string]http.HandlerFunc{
		"profile":       c.Profile,
		"subscriptions": c.Subscriptions,
		"status":        c.Status,
	} {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}
