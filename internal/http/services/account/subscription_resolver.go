package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/observability/logger"
)

// FreePlanExtension es cuánto se extiende valid_until de un plan free en cada login.
const FreePlanExtension = 365 * 24 * time.Hour

// ErrFreePlanMissing indica que el catálogo no tiene un plan "free".
var ErrFreePlanMissing = errors.New("account: free plan not found in catalogue")

// SubscriptionResolver garantiza que cada usuario tenga una suscripción
// y resuelve el plan vigente.
type SubscriptionResolver struct {
	subs repository.SubscriptionRepository
	now  func() time.Time
}

func NewSubscriptionResolver(subs repository.SubscriptionRepository, now func() time.Time) *SubscriptionResolver {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &SubscriptionResolver{subs: subs, now: now}
}

// GetOrCreateFreeSubscription devuelve la suscripción del usuario o crea una
// free (activa, auto_renew, valid_until = now + duration_days del plan).
func (r *SubscriptionResolver) GetOrCreateFreeSubscription(ctx context.Context, userID int64) (*repository.Subscription, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("account.subscriptions"),
		logger.Op("GetOrCreateFreeSubscription"),
		logger.UserID(userID),
	)

	sub, err := r.subs.FindByUserID(ctx, userID)
	if err == nil {
		return sub, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("account: find subscription: %w", err)
	}

	free, err := r.freePlan(ctx)
	if err != nil {
		return nil, err
	}

	sub, err = r.subs.Insert(ctx, repository.CreateSubscriptionInput{
		UserID:             userID,
		SubscriptionTypeID: free.ID,
		Status:             repository.SubscriptionStatusActive,
		AutoRenew:          true,
		ValidUntil:         r.now().AddDate(0, 0, free.DurationDays),
	})
	if err != nil {
		return nil, fmt.Errorf("account: create free subscription: %w", err)
	}
	log.Info("free subscription created", logger.SubscriptionID(sub.ID))
	return sub, nil
}

// CurrentPlan devuelve el plan de la suscripción. Si es free, además persiste
// valid_until = now + 365 días y actualiza sub en el lugar.
func (r *SubscriptionResolver) CurrentPlan(ctx context.Context, sub *repository.Subscription) (*repository.Plan, error) {
	plan, err := r.subs.FindPlanByID(ctx, sub.SubscriptionTypeID)
	if err != nil {
		return nil, fmt.Errorf("account: find plan %d: %w", sub.SubscriptionTypeID, err)
	}

	if plan.Type == repository.PlanTypeFree {
		until := r.now().Add(FreePlanExtension)
		if err := r.subs.UpdateValidUntil(ctx, sub.ID, until); err != nil {
			return nil, fmt.Errorf("account: extend free subscription %d: %w", sub.ID, err)
		}
		sub.ValidUntil = until
	}
	return plan, nil
}

// ListPlans devuelve el catálogo completo.
func (r *SubscriptionResolver) ListPlans(ctx context.Context) ([]repository.Plan, error) {
	return r.subs.ListPlans(ctx)
}

func (r *SubscriptionResolver) freePlan(ctx context.Context) (*repository.Plan, error) {
	plans, err := r.subs.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("account: list plans: %w", err)
	}
	for i := range plans {
		if plans[i].Type == repository.PlanTypeFree {
			return &plans[i], nil
		}
	}
	return nil, ErrFreePlanMissing
}
