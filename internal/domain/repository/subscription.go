package repository

import (
	"context"
	"time"
)

// Estados de suscripción.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// PlanTypeFree es el tipo del plan gratuito asignado a todo usuario nuevo.
const PlanTypeFree = "free"

// Plan es un tipo de suscripción del catálogo.
type Plan struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	DurationDays int       `json:"duration_days"`
	PriceCents   int64     `json:"price_cents"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Subscription es la suscripción de un usuario. A lo sumo una por usuario.
type Subscription struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	SubscriptionTypeID int64     `json:"subscription_type_id"`
	Status             string    `json:"status"`
	AutoRenew          bool      `json:"auto_renew"`
	ValidUntil         time.Time `json:"valid_until"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateSubscriptionInput contiene los datos para crear una suscripción.
type CreateSubscriptionInput struct {
	UserID             int64
	SubscriptionTypeID int64
	Status             string
	AutoRenew          bool
	ValidUntil         time.Time
}

// SubscriptionRepository persiste suscripciones y el catálogo de planes.
type SubscriptionRepository interface {
	// FindByUserID devuelve la suscripción del usuario. ErrNotFound si no tiene.
	FindByUserID(ctx context.Context, userID int64) (*Subscription, error)

	// Insert crea la suscripción. Si el usuario ya tiene una, devuelve la existente.
	Insert(ctx context.Context, in CreateSubscriptionInput) (*Subscription, error)

	// UpdateValidUntil mueve la fecha de vencimiento. ErrNotFound si no existe.
	UpdateValidUntil(ctx context.Context, id int64, validUntil time.Time) error

	// FindPlanByID devuelve un plan del catálogo. ErrNotFound si no existe.
	FindPlanByID(ctx context.Context, id int64) (*Plan, error)

	// ListPlans devuelve el catálogo completo ordenado por ID.
	ListPlans(ctx context.Context) ([]Plan, error)
}
