package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zone-matrix-service/internal/domain"
)

// RedisStore keeps serving sessions in Redis so server restarts and
// replicas share them. Sessions are stored as JSON under a session: prefix
// with the idle TTL applied; reads refresh it through GETEX.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var (
		data string
		err  error
	)
	if r.ttl > 0 {
		data, err = r.client.GetEx(ctx, sessionKey(id), r.ttl).Result()
	} else {
		data, err = r.client.Get(ctx, sessionKey(id)).Result()
	}
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %q: %w", id, err)
	}

	var s domain.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("parse session %q: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %q: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("put session %q: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session %q: %w", id, err)
	}
	return nil
}
