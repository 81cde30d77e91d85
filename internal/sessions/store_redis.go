package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sanad/pkg/platform/sentinel"
)

const sessionKeyPrefix = "sanad:session:"

// RedisStore is a Redis-backed session store. This is the recommended
// implementation for deployments that must survive restarts or run more than
// one instance behind the same webhook.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisStoreOption configures a RedisStore instance.
type RedisStoreOption func(*RedisStore)

// WithTTL overrides how long an untouched session survives. Every Put
// refreshes the expiry.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore constructs a Redis-backed session store.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if sess.Scratch == nil {
		sess.Scratch = map[string]string{}
	}
	return sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess Session) error {
	sess.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
