package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beinghadibadami/medinexus-connect/entities"
	"github.com/redis/go-redis/v9"
)

// Compile-time check to ensure RedisSnapshotCache implements SnapshotCache
var _ SnapshotCache = (*RedisSnapshotCache)(nil)

const (
	snapshotKey = "medinexus:catalog:snapshot"
	snapshotTTL = 7 * 24 * time.Hour
)

// RedisSnapshotCache stores the catalog snapshot as JSON under a single key
type RedisSnapshotCache struct {
	client *redis.Client
	key    string
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisSnapshotCache creates a cache over client. An empty key uses the default.
func NewRedisSnapshotCache(client *redis.Client, key string) *RedisSnapshotCache {
	if key == "" {
		key = snapshotKey
	}
	return &RedisSnapshotCache{client: client, key: key}
}

func (c *RedisSnapshotCache) Save(ctx context.Context, stores []entities.Store) error {
	payload, err := json.Marshal(stores)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := c.client.Set(ctx, c.key, payload, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

func (c *RedisSnapshotCache) Load(ctx context.Context) ([]entities.Store, bool, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get from cache: %w", err)
	}

	var stores []entities.Store
	if err := json.Unmarshal(payload, &stores); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return stores, true, nil
}
