package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nao1215/newsfilter/internal/model"
)

// RedisOptions configures the connection of a RedisStore.
type RedisOptions struct {
	// Addrs lists "host:port" addresses. One address connects to a single
	// node, several addresses to a cluster.
	Addrs []string

	// Username and Password authenticate with the server when set.
	Username string
	Password string

	// DB selects the logical database on single-node servers.
	DB int

	// DialTimeout bounds connecting; zero uses the go-redis default.
	DialTimeout time.Duration
}

// RedisStore caches results in Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        opts.Addrs,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  time.Second * 5,
		WriteTimeout: time.Second * 5,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // connection already failed
		return nil, fmt.Errorf("failed to connect to redis %v: %w", opts.Addrs, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) (model.Result, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Result{}, ErrCacheMiss
	}
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return decodeResult(data)
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key string, result model.Result, ttl time.Duration) error {
	data, err := encodeResult(result)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
