package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend persists the key/value pairs of every admin session.
type Backend interface {
	SetAll(ctx context.Context, sid string, values map[string]string) error
	Get(ctx context.Context, sid, key string) (string, bool, error)
	GetAll(ctx context.Context, sid string) (map[string]string, error)
	Delete(ctx context.Context, sid, key string) error
	Clear(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
}

const redisKeyPrefix = "admin:session:"

// RedisBackend stores each session as one Redis hash.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend creates a Redis backed session store. Every write refreshes the TTL.
func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

// OpenRedis connects to Redis and pings it to validate the connection.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return c, nil
}

func (b *RedisBackend) key(sid string) string {
	return redisKeyPrefix + sid
}

// SetAll writes values into the session hash
func (b *RedisBackend) SetAll(ctx context.Context, sid string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	key := b.key(sid)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if b.ttl > 0 {
			pipe.Expire(ctx, key, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Get reads one value
func (b *RedisBackend) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := b.client.HGet(ctx, b.key(sid), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session: %w", err)
	}
	return v, true, nil
}

// GetAll reads every value of the session
func (b *RedisBackend) GetAll(ctx context.Context, sid string) (map[string]string, error) {
	values, err := b.client.HGetAll(ctx, b.key(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return values, nil
}

// Delete removes one value
func (b *RedisBackend) Delete(ctx context.Context, sid, key string) error {
	if err := b.client.HDel(ctx, b.key(sid), key).Err(); err != nil {
		return fmt.Errorf("failed to delete session key: %w", err)
	}
	return nil
}

// Clear removes the whole session in one command
func (b *RedisBackend) Clear(ctx context.Context, sid string) error {
	if err := b.client.Del(ctx, b.key(sid)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// MemoryBackend keeps sessions in process memory. Sessions do not survive a restart.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[string]map[string]string)}
}

// SetAll writes values into the session
func (b *MemoryBackend) SetAll(_ context.Context, sid string, values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[sid]
	if !ok {
		s = make(map[string]string, len(values))
		b.sessions[sid] = s
	}
	for k, v := range values {
		s[k] = v
	}
	return nil
}

// Get reads one value
func (b *MemoryBackend) Get(_ context.Context, sid, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.sessions[sid][key]
	return v, ok, nil
}

// GetAll returns a copy of every value of the session
func (b *MemoryBackend) GetAll(_ context.Context, sid string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]string, len(b.sessions[sid]))
	for k, v := range b.sessions[sid] {
		out[k] = v
	}
	return out, nil
}

// Delete removes one value
func (b *MemoryBackend) Delete(_ context.Context, sid, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.sessions[sid], key)
	return nil
}

// Clear removes the whole session
func (b *MemoryBackend) Clear(_ context.Context, sid string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.sessions, sid)
	return nil
}

// Ping always succeeds
func (b *MemoryBackend) Ping(context.Context) error {
	return nil
}
