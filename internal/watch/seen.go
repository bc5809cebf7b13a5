package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultSeenKey is the redis set holding every job URL already reported.
const DefaultSeenKey = "linkedin:watch:seen"

// SeenStore remembers which job URLs have already been reported.
type SeenStore interface {
	Seen(ctx context.Context, jobURL string) (bool, error)
	MarkSeen(ctx context.Context, jobURLs ...string) error
}

// MemorySeenStore keeps seen URLs for the life of the process.
type MemorySeenStore struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewMemorySeenStore creates an empty in-process store.
func NewMemorySeenStore() *MemorySeenStore {
	return &MemorySeenStore{urls: make(map[string]struct{})}
}

func (m *MemorySeenStore) Seen(_ context.Context, jobURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.urls[jobURL]
	return ok, nil
}

func (m *MemorySeenStore) MarkSeen(_ context.Context, jobURLs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range jobURLs {
		m.urls[u] = struct{}{}
	}
	return nil
}

// Len reports how many URLs are stored.
func (m *MemorySeenStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.urls)
}

// RedisSeenStore keeps seen URLs in a redis set so they survive restarts and
// are shared between watcher processes.
type RedisSeenStore struct {
	client *redis.Client
	key    string
}

// NewRedisSeenStore uses key as the set name; empty means DefaultSeenKey.
func NewRedisSeenStore(client *redis.Client, key string) *RedisSeenStore {
	if key == "" {
		key = DefaultSeenKey
	}
	return &RedisSeenStore{client: client, key: key}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func (r *RedisSeenStore) Seen(ctx context.Context, jobURL string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.key, jobURL).Result()
	if err != nil {
		return false, fmt.Errorf("redis SISMEMBER %s: %w", r.key, err)
	}
	return ok, nil
}

func (r *RedisSeenStore) MarkSeen(ctx context.Context, jobURLs ...string) error {
	if len(jobURLs) == 0 {
		return nil
	}
	members := make([]any, len(jobURLs))
	for i, u := range jobURLs {
		members[i] = u
	}
	if err := r.client.SAdd(ctx, r.key, members...).Err(); err != nil {
		return fmt.Errorf("redis SADD %s: %w", r.key, err)
	}
	return nil
}
