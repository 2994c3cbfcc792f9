package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/domain/types"
)

func strp(s string) *string { return &s }

func TestUsers_InsertIsUpsert(t *testing.T) {
	s := New(nil)
	ctx := context.Background()
	users := s.Users()

	first, err := users.Insert(ctx, types.UserInfo{ProviderID: "123456", Name: strp("Ada"), Provider: types.ProviderGitHub})
	require.NoError(t, err)

	second, err := users.Insert(ctx, types.UserInfo{ProviderID: "123456", Name: strp("Ada L."), Email: strp("ada@example.com"), Provider: types.ProviderGitHub})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada L.", *second.Name)

	got, err := users.FindByProvider(ctx, types.ProviderGitHub, "123456")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", *got.Email)

	// mismo provider_id, otro provider => otra cuenta
	other, err := users.Insert(ctx, types.UserInfo{ProviderID: "123456", Provider: types.ProviderGoogle})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestUsers_ConcurrentFirstLogin(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]int64, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := s.Users().Insert(ctx, types.UserInfo{ProviderID: "g-1", Provider: types.ProviderGoogle})
			if err == nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestUsers_NotFound(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	_, err := s.Users().FindByProvider(ctx, types.ProviderGoogle, "nope")
	assert.True(t, repository.IsNotFound(err))
	assert.ErrorIs(t, s.Users().UpdateProfile(ctx, 99, types.UserInfo{}), repository.ErrNotFound)
}

func TestSubscriptions_OnePerUser(t *testing.T) {
	s := New(nil)
	s.SetNextIDs(42, 7)
	ctx := context.Background()

	u, err := s.Users().Insert(ctx, types.UserInfo{ProviderID: "x", Provider: types.ProviderGoogle})
	require.NoError(t, err)
	require.Equal(t, int64(42), u.ID)

	in := repository.CreateSubscriptionInput{
		UserID:             u.ID,
		SubscriptionTypeID: 1,
		Status:             repository.SubscriptionStatusActive,
		ValidUntil:         time.Now().Add(24 * time.Hour),
	}
	sub, err := s.Subscriptions().Insert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sub.ID)

	again, err := s.Subscriptions().Insert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)

	until := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Subscriptions().UpdateValidUntil(ctx, sub.ID, until))
	got, err := s.Subscriptions().FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.ValidUntil.Equal(until))

	assert.ErrorIs(t, s.Subscriptions().UpdateValidUntil(ctx, 999, until), repository.ErrNotFound)
}

func TestSubscriptions_RejectsUnknownUserOrPlan(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	_, err := s.Subscriptions().Insert(ctx, repository.CreateSubscriptionInput{UserID: 1, SubscriptionTypeID: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	u, _ := s.Users().Insert(ctx, types.UserInfo{ProviderID: "x", Provider: types.ProviderGoogle})
	_, err = s.Subscriptions().Insert(ctx, repository.CreateSubscriptionInput{UserID: u.ID, SubscriptionTypeID: 77})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlans(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	plans, err := s.Subscriptions().ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, repository.PlanTypeFree, plans[0].Type)
	assert.Equal(t, 365, plans[0].DurationDays)

	p, err := s.Subscriptions().FindPlanByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "pro", p.Type)

	_, err = s.Subscriptions().FindPlanByID(ctx, 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
