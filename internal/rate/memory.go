package rate

import (
	"context"
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// MemoryLimiter es un token bucket por clave en memoria del proceso.
// Se usa cuando el cache no es Redis (dev, una sola réplica).
type MemoryLimiter struct {
	Max    int
	Window time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim      *xrate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter permite max requests por window (burst = max).
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &MemoryLimiter{
		Max:     max,
		Window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		every := l.Window / time.Duration(l.Max)
		b = &bucket{lim: xrate.NewLimiter(xrate.Every(every), l.Max)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	if b.lim.AllowN(now, 1) {
		return Result{
			Allowed:   true,
			Remaining: int64(b.lim.TokensAt(now)),
			WindowTTL: l.Window,
		}, nil
	}

	r := b.lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	if delay < time.Second {
		delay = time.Second
	}
	return Result{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: delay,
		WindowTTL:  l.Window,
	}, nil
}

// sweep descarta buckets sin uso durante más de una ventana. Llamar con mu tomado.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.Window {
		return
	}
	l.lastSweep = now
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.Window {
			delete(l.buckets, k)
		}
	}
}

// Len devuelve la cantidad de claves vivas.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
