// Package rate limita requests por clave (IP + ruta) para los endpoints de
// intercambio de código OAuth.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result es la decisión para un hit.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration // solo si !Allowed
	WindowTTL  time.Duration // lo que falta para que se reinicie la cuenta
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter cuenta hits en una ventana fija compartida entre réplicas.
// Una clave por (key, inicio de ventana); expira sola al cerrar la ventana.
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration

	now func() time.Time
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		Client: client,
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) windowKey(key string) string {
	start := l.now().UTC().Truncate(l.Window).Unix()
	return fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), start)
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k := l.windowKey(key)

	var (
		hits *rdb.IntCmd
		ttl  *rdb.DurationCmd
	)
	_, err := l.Client.TxPipelined(ctx, func(p rdb.Pipeliner) error {
		hits = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, l.Window)
		ttl = p.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate: redis: %w", err)
	}
	return l.result(hits.Val(), ttl.Val()), nil
}

func (l *RedisLimiter) result(hits int64, ttl time.Duration) Result {
	res := Result{
		Allowed:   hits <= l.Max,
		Remaining: max(l.Max-hits, 0),
		WindowTTL: ttl,
	}
	if res.Allowed {
		return res
	}
	// TTL negativo: la clave quedó sin expiración, se asume ventana completa
	res.RetryAfter = ttl
	if ttl < 0 {
		res.RetryAfter = l.Window.Round(time.Second)
	}
	return res
}
