// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/realty/internal/platform/constants"
)

// RedisStore implements [TokenStore] using Redis.
//
// Entries expire after the configured TTL so abandoned browser sessions do
// not accumulate. Every Save refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed [TokenStore].
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (store *RedisStore) key(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

/*
Load retrieves the token for a browser session.

Returns:
  - string: The raw token, or "" if absent or expired
  - error: Connectivity errors
*/
func (store *RedisStore) Load(ctx context.Context, sessionID string) (string, error) {
	token, err := store.client.Get(ctx, store.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return token, nil
}

/*
Save stores the token with the store TTL.

Returns:
  - error: Storage failures
*/
func (store *RedisStore) Save(ctx context.Context, sessionID, token string) error {
	if err := store.client.Set(ctx, store.key(sessionID), token, store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
Delete removes the token from Redis.

Returns:
  - error: Deletion failures
*/
func (store *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := store.client.Del(ctx, store.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
