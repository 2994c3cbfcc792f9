// Package cachetest provee un cache.Client en memoria con fallas inyectables.
package cachetest

import (
	"context"
	"sync"
	"time"

	"github.com/Zim95/browseterm-server/internal/cache"
)

// Fake envuelve cache.MemoryClient. Los campos se fijan antes de usarlo.
type Fake struct {
	*cache.MemoryClient

	// TTLOverride, si no es nil, es lo que devuelve TTL para cualquier key.
	TTLOverride *int64
	TTLErr      error
	GetErr      error
	SetErr      error
	ExpireErr   error

	mu      sync.Mutex
	deletes int
}

func New() *Fake {
	return &Fake{MemoryClient: cache.NewMemory("")}
}

// SetTTL fuerza el TTL reportado.
func (f *Fake) SetTTL(v int64) { f.TTLOverride = &v }

// DeleteCalls cuenta las llamadas a Delete (hayan borrado o no).
func (f *Fake) DeleteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deletes
}

func (f *Fake) TTL(ctx context.Context, key string) (int64, error) {
	if f.TTLErr != nil {
		return cache.TTLMissing, f.TTLErr
	}
	if f.TTLOverride != nil {
		return *f.TTLOverride, nil
	}
	return f.MemoryClient.TTL(ctx, key)
}

func (f *Fake) Get(ctx context.Context, key string) (string, error) {
	if f.GetErr != nil {
		return "", f.GetErr
	}
	return f.MemoryClient.Get(ctx, key)
}

func (f *Fake) SetEX(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	return f.MemoryClient.SetEX(ctx, key, value, ttl)
}

func (f *Fake) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.ExpireErr != nil {
		return false, f.ExpireErr
	}
	return f.MemoryClient.Expire(ctx, key, ttl)
}

func (f *Fake) Delete(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	f.deletes++
	f.mu.Unlock()
	return f.MemoryClient.Delete(ctx, key)
}
