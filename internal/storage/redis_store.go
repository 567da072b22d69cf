package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix  = "roliwatch:activity"
	redisOpTimeout  = 2 * time.Second
	redisSeenMarker = "1"
)

// redisCmds is the subset of *redis.Client the store uses.
type redisCmds interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// redisStore keeps one key per activity id and lets Redis expire it.
type redisStore struct {
	client redisCmds
	ttl    time.Duration
}

func openRedis(opts Options) (*redisStore, error) {
	addr := strings.TrimSpace(opts.RedisAddr)
	if addr == "" {
		return nil, fmt.Errorf("redis storage requires an address")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return newRedisStore(client, opts.ActivityTTL), nil
}

func newRedisStore(client redisCmds, ttl time.Duration) *redisStore {
	return &redisStore{client: client, ttl: ttl}
}

func (r *redisStore) Close() error {
	return r.client.Close()
}

func (r *redisStore) SeenActivity(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("querying redis: %w", err)
	}
	return n > 0, nil
}

func (r *redisStore) MarkActivity(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(id), redisSeenMarker, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing redis key: %w", err)
	}
	return nil
}

func (r *redisStore) key(id string) string {
	return redisKeyPrefix + ":" + id
}
