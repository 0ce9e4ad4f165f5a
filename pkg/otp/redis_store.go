package otp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session records in Redis.
const DefaultKeyPrefix = "otpgate:otp:"

// RedisStore implements Store on Redis. Records are JSON values written with a
// TTL of their validity plus ExpiryGrace; GetAndClear uses GETDEL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	grace  time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix replaces DefaultKeyPrefix. Empty values are ignored.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithExpiryGrace replaces ExpiryGrace in the key TTL.
func WithExpiryGrace(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if d >= 0 {
			s.grace = d
		}
	}
}

// NewRedisStore wraps an already connected client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultKeyPrefix,
		grace:  ExpiryGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, rec Record) error {
	if strings.TrimSpace(sessionID) == "" || rec.ValidityMinutes <= 0 {
		return ErrInvalidRecord
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, rec.Validity()+s.grace).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *RedisStore) GetAndClear(ctx context.Context, sessionID string) (Record, error) {
	return s.decode(s.client.GetDel(ctx, s.key(sessionID)).Bytes())
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Record, error) {
	return s.decode(s.client.Get(ctx, s.key(sessionID)).Bytes())
}

func (s *RedisStore) decode(data []byte, err error) (Record, error) {
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errors.Join(ErrStore, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Join(ErrStore, err)
	}
	return rec, nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}
