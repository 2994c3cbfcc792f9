// Package pg implementa los repositorios sobre PostgreSQL con pgxpool.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
)

// PoolConfig ajusta el pool. Ceros => defaults de pgxpool.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// Store agrupa los repositorios que comparten el pool.
type Store struct {
	pool *pgxpool.Pool

	users         *userRepo
	subscriptions *subscriptionRepo
}

// Open crea el pool y verifica la conexión.
func Open(ctx context.Context, dsn string, pc PoolConfig) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		cfg.MinConns = pc.MinConns
	}
	if pc.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = pc.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return New(pool), nil
}

// New envuelve un pool existente.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:          pool,
		users:         &userRepo{pool: pool},
		subscriptions: &subscriptionRepo{pool: pool},
	}
}

func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Subscriptions() repository.SubscriptionRepository { return s.subscriptions }
func (s *Store) Pool() *pgxpool.Pool                              { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
