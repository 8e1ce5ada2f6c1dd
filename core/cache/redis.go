package cache

import (
	"context"
	"fmt"
	"time"

	"slotswap/core/config"
	"slotswap/core/constants"
	"slotswap/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache backs the auth plumbing: revoked-token blacklist and login attempt
// throttling. The swap core never touches it.
type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error)
	ResetLoginAttempts(ctx context.Context, identifier string) error
	Close() error
}

type redisCache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to revoke.
		return nil
	}
	return c.client.Set(ctx, constants.CacheKeyTokenBlacklist+token, "1", ttl).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.CacheKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error) {
	key := constants.CacheKeyLoginAttempt + identifier
	attempts, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if attempts == 1 {
		if err := c.client.Expire(ctx, key, constants.LoginAttemptWindow).Err(); err != nil {
			logger.Error("Cache:IncrementLoginAttempt:Expire", "error", err, "identifier", identifier)
		}
	}
	return attempts, nil
}

func (c *redisCache) ResetLoginAttempts(ctx context.Context, identifier string) error {
	return c.client.Del(ctx, constants.CacheKeyLoginAttempt+identifier).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
