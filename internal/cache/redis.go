package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient implementa Client usando Redis.
type RedisClient struct {
	client *redis.Client
	prefix string
}

// NewRedis crea un cliente Redis y verifica la conexión con un PING.
func NewRedis(cfg Config) (*RedisClient, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 6379
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return NewRedisFromClient(rdb, cfg.Prefix), nil
}

// NewRedisFromClient envuelve un *redis.Client existente (sin PING).
func NewRedisFromClient(rdb *redis.Client, prefix string) *RedisClient {
	return &RedisClient{client: rdb, prefix: prefix}
}

// Raw expone el cliente subyacente (lo usa el rate limiter).
func (c *RedisClient) Raw() *redis.Client { return c.client }

func (c *RedisClient) key(k string) string { return prefixed(c.prefix, k) }

func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *RedisClient) SetEX(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0 // en go-redis -1 es KEEPTTL; acá negativo significa sin expiración
	}
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *RedisClient) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return c.client.Persist(ctx, c.key(key)).Result()
	}
	return c.client.Expire(ctx, c.key(key), ttl).Result()
}

func (c *RedisClient) TTL(ctx context.Context, key string) (int64, error) {
	d, err := c.client.TTL(ctx, c.key(key)).Result()
	if err != nil {
		return TTLMissing, err
	}
	// go-redis devuelve -1/-2 sin escalar por la precisión.
	switch d {
	case time.Duration(TTLMissing):
		return TTLMissing, nil
	case time.Duration(TTLNoExpiry):
		return TTLNoExpiry, nil
	}
	return int64(d / time.Second), nil
}

func (c *RedisClient) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Del(ctx, c.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}

func (c *RedisClient) Stats(ctx context.Context) (Stats, error) {
	info, err := c.client.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return Stats{}, err
	}
	keys, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{Driver: "redis", Keys: keys}
	for _, line := range strings.Split(info, "\r\n") {
		switch {
		case strings.HasPrefix(line, "used_memory_human:"):
			st.UsedMemory = strings.TrimPrefix(line, "used_memory_human:")
		case strings.HasPrefix(line, "keyspace_hits:"):
			fmt.Sscanf(strings.TrimPrefix(line, "keyspace_hits:"), "%d", &st.Hits)
		case strings.HasPrefix(line, "keyspace_misses:"):
			fmt.Sscanf(strings.TrimPrefix(line, "keyspace_misses:"), "%d", &st.Misses)
		}
	}
	return st, nil
}
