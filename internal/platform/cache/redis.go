package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PayslipCache keeps rendered payslips in Redis.
type PayslipCache struct {
	client *redis.Client
}

// New connects to addr and pings it. An empty addr disables caching and
// returns nil.
func New(ctx context.Context, addr, password string) (*PayslipCache, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &PayslipCache{client: client}, nil
}

func NewWithClient(client *redis.Client) *PayslipCache {
	return &PayslipCache{client: client}
}

func (c *PayslipCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *PayslipCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *PayslipCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *PayslipCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *PayslipCache) Close() error {
	return c.client.Close()
}
