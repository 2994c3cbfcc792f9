package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

const subscriptionColumns = `id, user_id, subscription_type_id, status, auto_renew, valid_until, created_at, updated_at`

func scanSubscription(row pgx.Row) (*repository.Subscription, error) {
	var s repository.Subscription
	if err := row.Scan(&s.ID, &s.UserID, &s.SubscriptionTypeID, &s.Status, &s.AutoRenew, &s.ValidUntil, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *subscriptionRepo) FindByUserID(ctx context.Context, userID int64) (*repository.Subscription, error) {
	const query = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	return scanSubscription(r.pool.QueryRow(ctx, query, userID))
}

// Insert no pisa una suscripción existente: si el usuario ya tiene una, la devuelve.
func (r *subscriptionRepo) Insert(ctx context.Context, in repository.CreateSubscriptionInput) (*repository.Subscription, error) {
	const query = `
		WITH ins AS (
			INSERT INTO subscriptions (user_id, subscription_type_id, status, auto_renew, valid_until)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING ` + subscriptionColumns + `
		)
		SELECT ` + subscriptionColumns + ` FROM ins
		UNION ALL
		SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1
		LIMIT 1`
	return scanSubscription(r.pool.QueryRow(ctx, query,
		in.UserID, in.SubscriptionTypeID, in.Status, in.AutoRenew, in.ValidUntil,
	))
}

func (r *subscriptionRepo) UpdateValidUntil(ctx context.Context, id int64, validUntil time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET valid_until = $2, updated_at = NOW() WHERE id = $1`,
		id, validUntil,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

const planColumns = `id, type, name, duration_days, price_cents, currency, created_at, updated_at`

func scanPlan(row pgx.Row) (*repository.Plan, error) {
	var p repository.Plan
	if err := row.Scan(&p.ID, &p.Type, &p.Name, &p.DurationDays, &p.PriceCents, &p.Currency, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *subscriptionRepo) FindPlanByID(ctx context.Context, id int64) (*repository.Plan, error) {
	return scanPlan(r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM subscription_types WHERE id = $1`, id))
}

func (r *subscriptionRepo) ListPlans(ctx context.Context) ([]repository.Plan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+planColumns+` FROM subscription_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []repository.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}
