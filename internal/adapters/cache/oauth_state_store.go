package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskpilot/taskpilot/internal/ports"
)

const oauthStateKeyPrefix = "auth:oauth:state:"

// RedisOAuthStateStore keeps one-time login states in Redis with a TTL, so
// stale states expire on their own and a restart does not strand them.
type RedisOAuthStateStore struct {
	client *redis.Client
}

func NewRedisOAuthStateStore(client *redis.Client) *RedisOAuthStateStore {
	return &RedisOAuthStateStore{client: client}
}

func (s *RedisOAuthStateStore) Put(ctx context.Context, state string, value ports.OAuthState, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal oauth state: %w", err)
	}
	if err := s.client.Set(ctx, oauthStateKeyPrefix+state, raw, ttl).Err(); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

func (s *RedisOAuthStateStore) Get(ctx context.Context, state string) (*ports.OAuthState, error) {
	raw, err := s.client.Get(ctx, oauthStateKeyPrefix+state).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load oauth state: %w", err)
	}
	var value ports.OAuthState
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("decode oauth state: %w", err)
	}
	return &value, nil
}

func (s *RedisOAuthStateStore) Delete(ctx context.Context, state string) error {
	if err := s.client.Del(ctx, oauthStateKeyPrefix+state).Err(); err != nil {
		return fmt.Errorf("delete oauth state: %w", err)
	}
	return nil
}
