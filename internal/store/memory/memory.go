// Package memory implementa los repositorios en memoria. Sirve para
// desarrollo local y tests; los datos no sobreviven un reinicio.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/domain/types"
)

// DefaultPlans es el catálogo sembrado, igual al de las migraciones de Postgres.
func DefaultPlans() []repository.Plan {
	return []repository.Plan{
		{ID: 1, Type: repository.PlanTypeFree, Name: "Free", DurationDays: 365, PriceCents: 0, Currency: "USD"},
		{ID: 2, Type: "pro", Name: "Pro", DurationDays: 30, PriceCents: 900, Currency: "USD"},
		{ID: 3, Type: "premium", Name: "Premium", DurationDays: 30, PriceCents: 2900, Currency: "USD"},
	}
}

type identity struct {
	provider   types.Provider
	providerID string
}

// Store guarda usuarios, suscripciones y planes bajo un único mutex.
type Store struct {
	mu sync.Mutex

	nextUserID int64
	nextSubID  int64

	users      map[int64]*repository.User
	byIdentity map[identity]int64
	subs       map[int64]*repository.Subscription // por user_id
	plans      map[int64]repository.Plan

	now func() time.Time
}

// New crea el store con el catálogo dado (nil => DefaultPlans).
func New(plans []repository.Plan) *Store {
	if plans == nil {
		plans = DefaultPlans()
	}
	s := &Store{
		users:      make(map[int64]*repository.User),
		byIdentity: make(map[identity]int64),
		subs:       make(map[int64]*repository.Subscription),
		plans:      make(map[int64]repository.Plan, len(plans)),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, p := range plans {
		s.plans[p.ID] = p
	}
	return s
}

// SetNextIDs fija los próximos ids asignados (útil en tests).
func (s *Store) SetNextIDs(userID, subscriptionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID = userID - 1
	s.nextSubID = subscriptionID - 1
}

func (s *Store) Users() repository.UserRepository                 { return (*userRepo)(s) }
func (s *Store) Subscriptions() repository.SubscriptionRepository { return (*subscriptionRepo)(s) }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

type userRepo Store

func (r *userRepo) FindByProvider(_ context.Context, provider types.Provider, providerID string) (*repository.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byIdentity[identity{provider, providerID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (r *userRepo) Insert(_ context.Context, info types.UserInfo) (*repository.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := identity{info.Provider, info.ProviderID}
	if id, ok := s.byIdentity[key]; ok {
		u := s.users[id]
		applyProfile(u, info, now)
		cp := *u
		return &cp, nil
	}

	s.nextUserID++
	u := &repository.User{
		ID:         s.nextUserID,
		ProviderID: info.ProviderID,
		Provider:   info.Provider,
		CreatedAt:  now,
	}
	applyProfile(u, info, now)
	s.users[u.ID] = u
	s.byIdentity[key] = u.ID
	cp := *u
	return &cp, nil
}

func (r *userRepo) UpdateProfile(_ context.Context, id int64, info types.UserInfo) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	applyProfile(u, info, s.now())
	return nil
}

func applyProfile(u *repository.User, info types.UserInfo, now time.Time) {
	u.Name = cloneString(info.Name)
	u.Email = cloneString(info.Email)
	u.ProfilePictureURL = cloneString(info.ProfilePictureURL)
	u.UpdatedAt = now
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type subscriptionRepo Store

func (r *subscriptionRepo) FindByUserID(_ context.Context, userID int64) (*repository.Subscription, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *subscriptionRepo) Insert(_ context.Context, in repository.CreateSubscriptionInput) (*repository.Subscription, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.subs[in.UserID]; ok {
		cp := *existing
		return &cp, nil
	}
	if _, ok := s.users[in.UserID]; !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := s.plans[in.SubscriptionTypeID]; !ok {
		return nil, repository.ErrNotFound
	}

	now := s.now()
	s.nextSubID++
	sub := &repository.Subscription{
		ID:                 s.nextSubID,
		UserID:             in.UserID,
		SubscriptionTypeID: in.SubscriptionTypeID,
		Status:             in.Status,
		AutoRenew:          in.AutoRenew,
		ValidUntil:         in.ValidUntil,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.subs[in.UserID] = sub
	cp := *sub
	return &cp, nil
}

func (r *subscriptionRepo) UpdateValidUntil(_ context.Context, id int64, validUntil time.Time) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub.ID == id {
			sub.ValidUntil = validUntil
			sub.UpdatedAt = s.now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *subscriptionRepo) FindPlanByID(_ context.Context, id int64) (*repository.Plan, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *subscriptionRepo) ListPlans(context.Context) ([]repository.Plan, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]repository.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
