// Package cache is a thin redis cache for version reads. Versions are
// immutable, so version entries carry a long TTL; pointers to the current
// version are invalidated on every commit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs
const (
	TTLVersion     = 30 * time.Minute // immutable snapshots
	TTLVersionList = 1 * time.Minute  // listings change on every commit
	TTLDefault     = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixVersion     = "version:"
	PrefixCurrent     = "version:current:"
	PrefixVersionList = "versions:"
)

// ErrCacheMiss is returned when a key is absent
var ErrCacheMiss = errors.New("cache miss")

// Service is the cache interface consumed by the version service
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetVersion(ctx context.Context, versionID string, dest interface{}) error
	SetVersion(ctx context.Context, versionID string, data interface{}) error
	InvalidateContent(ctx context.Context, contentID string) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a redis-backed cache Service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetVersion(ctx context.Context, versionID string, dest interface{}) error {
	return c.Get(ctx, PrefixVersion+versionID, dest)
}

func (c *redisCache) SetVersion(ctx context.Context, versionID string, data interface{}) error {
	return c.Set(ctx, PrefixVersion+versionID, data, TTLVersion)
}

// InvalidateContent drops the current pointer and listing for a content
// item; called after every version commit.
func (c *redisCache) InvalidateContent(ctx context.Context, contentID string) error {
	return c.Delete(ctx,
		PrefixCurrent+contentID,
		fmt.Sprintf("%s%s", PrefixVersionList, contentID),
	)
}
