// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisBackend. Defaults can be loaded from
// the environment with NewRedisBackendFromEnv.
type RedisConfig struct {
	// Addr like "localhost:6379". ENV: REDIS_ADDR
	Addr string `env:"REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix for all keys. ENV: FBSESSION_REDIS_KEY_PREFIX
	KeyPrefix string `env:"FBSESSION_REDIS_KEY_PREFIX,default=fbsession:sessions:"`
}

// RedisBackend keeps each value under a prefixed redis key, expiring
// it with the session.
type RedisBackend struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisBackend connects to redis and verifies the connection.
func NewRedisBackend(ctx context.Context, config RedisConfig) (*RedisBackend, error) {
	addr := config.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("sessionstore: redis ping %s: %w", addr, err)
	}
	return NewRedisBackendWithClient(client, config.KeyPrefix), nil
}

// NewRedisBackendFromEnv builds a RedisBackend from REDIS_ADDR and
// FBSESSION_REDIS_KEY_PREFIX, with defaults for both.
func NewRedisBackendFromEnv(ctx context.Context) (*RedisBackend, error) {
	var config RedisConfig
	if err := envdecode.Decode(&config); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("sessionstore: reading redis environment: %w", err)
	}
	return NewRedisBackend(ctx, config)
}

// NewRedisBackendWithClient wraps an existing client.
func NewRedisBackendWithClient(client *redis.Client, keyPrefix string) *RedisBackend {
	if keyPrefix == "" {
		keyPrefix = "fbsession:sessions:"
	}
	return &RedisBackend{client: client, keyPrefix: keyPrefix}
}

// Close closes the redis client.
func (backend *RedisBackend) Close() error { return backend.client.Close() }

func (backend *RedisBackend) redisKey(key string) string { return backend.keyPrefix + key }

// Get returns the value under key.
func (backend *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := backend.client.Get(ctx, backend.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores value under key with the given TTL (zero for none).
func (backend *RedisBackend) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return backend.client.Set(ctx, backend.redisKey(key), value, ttl).Err()
}

// Delete removes key.
func (backend *RedisBackend) Delete(ctx context.Context, key string) error {
	return backend.client.Del(ctx, backend.redisKey(key)).Err()
}
