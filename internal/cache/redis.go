package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenCache keeps provider access tokens in Redis so every instance
// shares one token until it expires.
type RedisTokenCache struct {
	client *redis.Client
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool, error) {
	token, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (c *RedisTokenCache) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return c.client.Set(ctx, key, token, ttl).Err()
}

func (c *RedisTokenCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
