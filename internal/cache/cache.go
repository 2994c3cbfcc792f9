// Package cache provee el backend clave/valor compartido donde viven las sesiones.
//
// Soporta:
//   - Memory (in-process sobre go-cache, para desarrollo/testing)
//   - Redis (compartido entre réplicas, para producción)
//
// La semántica imita los comandos de Redis que usa el store de sesiones:
// SET EX, GET, EXPIRE, TTL y DEL.
package cache

import (
	"context"
	"errors"
	"time"
)

// Valores especiales devueltos por TTL, con la misma codificación que Redis.
const (
	TTLMissing  int64 = -2 // la key no existe
	TTLNoExpiry int64 = -1 // la key existe sin expiración
)

// Client define las operaciones del backend.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// SetEX guarda un valor con TTL. Si ttl <= 0, no expira.
	SetEX(ctx context.Context, key, value string, ttl time.Duration) error

	// Expire reemplaza el TTL sin tocar el valor. false si la key no existe.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// TTL retorna los segundos restantes, TTLMissing o TTLNoExpiry.
	// 0 significa que la key existe pero le queda menos de medio segundo.
	TTL(ctx context.Context, key string) (int64, error)

	// Delete elimina una key. true si existía.
	Delete(ctx context.Context, key string) (bool, error)

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error

	// Stats retorna estadísticas del backend.
	Stats(ctx context.Context) (Stats, error)
}

// Stats contiene estadísticas del backend.
type Stats struct {
	Driver     string `json:"driver"`
	Keys       int64  `json:"keys"`
	UsedMemory string `json:"used_memory,omitempty"`
	Hits       int64  `json:"hits"`
	Misses     int64  `json:"misses"`
}

// Config configuración para crear un cliente.
type Config struct {
	Driver   string // "memory" | "redis"
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	Prefix   string // Prefijo para todas las keys (namespace), opcional
}

// ErrNotFound indica que la key no existe.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix), nil
	default:
		return nil, errors.New("cache: unknown driver " + cfg.Driver)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
