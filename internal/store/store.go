// Package store abre el almacenamiento relacional configurado.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zim95/browseterm-server/internal/domain/repository"
	"github.com/Zim95/browseterm-server/internal/store/memory"
	"github.com/Zim95/browseterm-server/internal/store/pg"
)

// Store es lo que consumen los services: repositorios + ciclo de vida.
type Store interface {
	Users() repository.UserRepository
	Subscriptions() repository.SubscriptionRepository
	Ping(ctx context.Context) error
	Close() error
}

// Config selecciona el driver.
type Config struct {
	Driver      string // "postgres" | "memory"
	DSN         string
	Pool        pg.PoolConfig
	AutoMigrate bool
}

// Open abre el store. Con AutoMigrate aplica las migraciones antes de conectar el pool.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "postgres", "pg":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("store: postgres driver requires a dsn")
		}
		if cfg.AutoMigrate {
			if err := pg.MigrateUp(cfg.DSN); err != nil {
				return nil, err
			}
		}
		return pg.Open(ctx, cfg.DSN, cfg.Pool)
	case "memory", "":
		return memory.New(nil), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// PoolOf devuelve el pool de Postgres si el store lo tiene (para métricas).
func PoolOf(s Store) func() *pgxpool.Pool {
	if p, ok := s.(*pg.Store); ok {
		return p.Pool
	}
	return nil
}
