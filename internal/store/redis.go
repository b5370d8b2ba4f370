package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key this app writes to redis
const KeyPrefix = "mushaf:"

// RedisKey returns the redis key for a store key
func RedisKey(key string) string {
	return KeyPrefix + key
}

// RedisOptions configures the redis backend
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration // default 5s
	PingTimeout time.Duration // default 2s
}

// RedisKV stores keys in redis, for sharing one reading state between
// terminals on the same machine
type RedisKV struct {
	client *redis.Client
}

// OpenRedis connects and pings the server once
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisKV, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	return NewRedisKV(client), nil
}

// NewRedisKV wraps an existing client
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, RedisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, RedisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
