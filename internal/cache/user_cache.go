package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/safelease/accounts-web/internal/model"
)

// UserCache is a short-TTL Redis cache of the current-user lookup, keyed
// by access token. It only absorbs repeated /auth/me/ calls within a few
// seconds; the backend stays authoritative.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache creates a cache over the given Redis client.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// key hashes the access token so raw credentials never appear in Redis.
func (c *UserCache) key(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "me:" + hex.EncodeToString(sum[:16])
}

// Get returns the cached user for the token, if any.
func (c *UserCache) Get(ctx context.Context, accessToken string) (*model.User, bool) {
	v, err := c.client.Get(ctx, c.key(accessToken)).Bytes()
	if err != nil {
		return nil, false
	}
	var u model.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, false
	}
	return &u, true
}

// Set stores the user for the token. Failures are ignored; the cache is
// best-effort.
func (c *UserCache) Set(ctx context.Context, accessToken string, user *model.User) {
	b, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(accessToken), b, c.ttl).Err()
}

// Invalidate removes the cached entry for the token.
func (c *UserCache) Invalidate(ctx context.Context, accessToken string) {
	_ = c.client.Del(ctx, c.key(accessToken)).Err()
}
