package code

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yours-lab/backend/config"
)

var ErrNotMatch = errors.New("code does not match or is expired")

// Store keeps short-lived verification codes keyed by recipient.
type Store interface {
	Save(ctx context.Context, key, code string) error
	Verify(ctx context.Context, key, code string) error
}

type redisStore struct {
	client     *redis.Client
	expiration time.Duration
}

func NewRedisStore(cfg config.RedisConfigs) Store {
	return &redisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
		}),
		expiration: cfg.AuthCodeExpiration,
	}
}

func (s *redisStore) Save(ctx context.Context, key, code string) error {
	return s.client.Set(ctx, "authcode:"+key, code, s.expiration).Err()
}

func (s *redisStore) Verify(ctx context.Context, key, code string) error {
	stored, err := s.client.Get(ctx, "authcode:"+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotMatch
		}
		return err
	}

	if stored != code {
		return ErrNotMatch
	}

	return s.client.Del(ctx, "authcode:"+key).Err()
}

type memoryEntry struct {
	code      string
	expiredAt time.Time
}

type memoryStore struct {
	mutex      sync.Mutex
	entries    map[string]memoryEntry
	expiration time.Duration
}

// NewMemoryStore is used by tests and local runs without a redis server.
func NewMemoryStore(expiration time.Duration) Store {
	return &memoryStore{
		entries:    make(map[string]memoryEntry),
		expiration: expiration,
	}
}

func (s *memoryStore) Save(ctx context.Context, key, code string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries[key] = memoryEntry{code: code, expiredAt: time.Now().Add(s.expiration)}
	return nil
}

func (s *memoryStore) Verify(ctx context.Context, key, code string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.code != code || time.Now().After(entry.expiredAt) {
		return ErrNotMatch
	}

	delete(s.entries, key)
	return nil
}
