package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryClient implementa Client en memoria sobre go-cache.
// Solo sirve para una réplica: las sesiones no se comparten entre procesos.
type MemoryClient struct {
	c      *gocache.Cache
	prefix string

	// Serializa las operaciones compuestas (leer + reescribir).
	mu sync.Mutex

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory crea un cliente en memoria. El janitor de go-cache purga cada minuto.
func NewMemory(prefix string) *MemoryClient {
	return &MemoryClient{
		c:      gocache.New(gocache.NoExpiration, time.Minute),
		prefix: prefix,
	}
}

func (m *MemoryClient) key(k string) string { return prefixed(m.prefix, k) }

func (m *MemoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.hits.Add(1)
	s, _ := v.(string)
	return s, nil
}

func (m *MemoryClient) SetEX(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.mu.Lock()
	m.c.Set(m.key(key), value, ttl)
	m.mu.Unlock()
	return nil
}

func (m *MemoryClient) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)
	v, ok := m.c.Get(k)
	if !ok {
		return false, nil
	}
	if err := m.c.Replace(k, v, ttl); err != nil {
		// Expiró entre Get y Replace
		return false, nil
	}
	return true, nil
}

func (m *MemoryClient) TTL(_ context.Context, key string) (int64, error) {
	_, exp, ok := m.c.GetWithExpiration(m.key(key))
	if !ok {
		return TTLMissing, nil
	}
	if exp.IsZero() {
		return TTLNoExpiry, nil
	}
	left := time.Until(exp)
	if left < 0 {
		left = 0
	}
	// Mismo redondeo que Redis: (ms + 500) / 1000
	return (left.Milliseconds() + 500) / 1000, nil
}

func (m *MemoryClient) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(key)
	if _, ok := m.c.Get(k); !ok {
		return false, nil
	}
	m.c.Delete(k)
	return true, nil
}

func (m *MemoryClient) Ping(context.Context) error { return nil }

func (m *MemoryClient) Close() error { return nil }

func (m *MemoryClient) Stats(context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(m.c.ItemCount()),
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}, nil
}
