package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps one cart per browser session. Loading a session under a
// different scope than the stored cart discards the stored cart, so moving
// to another table always starts empty.
type Store interface {
	Load(ctx context.Context, session string, scope Scope) (*Cart, error)
	Save(ctx context.Context, session string, c *Cart) error
	Delete(ctx context.Context, session string) error
}

// Default is the process-wide store, chosen in main.
var Default Store = NewMemoryStore(2 * time.Hour)

func scoped(stored *Cart, scope Scope) *Cart {
	if stored == nil || stored.Scope != scope {
		return New(scope)
	}
	if stored.Lines == nil {
		stored.Lines = []Line{}
	}
	return stored
}

type memoryEntry struct {
	cart      Cart
	expiresAt time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func clone(c *Cart) Cart {
	return Cart{Scope: c.Scope, Lines: append([]Line(nil), c.Lines...)}
}

func (m *MemoryStore) Load(_ context.Context, session string, scope Scope) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[session]
	if !ok || m.now().After(e.expiresAt) {
		delete(m.entries, session)
		return New(scope), nil
	}
	c := clone(&e.cart)
	return scoped(&c, scope), nil
}

func (m *MemoryStore) Save(_ context.Context, session string, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[session] = memoryEntry{cart: clone(c), expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, session)
	return nil
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(session string) string {
	return "cart:" + session
}

func (r *RedisStore) Load(ctx context.Context, session string, scope Scope) (*Cart, error) {
	raw, err := r.client.Get(ctx, redisKey(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(scope), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var stored Cart
	if err := json.Unmarshal(raw, &stored); err != nil {
		// a corrupt entry is treated as an empty cart
		return New(scope), nil
	}
	return scoped(&stored, scope), nil
}

func (r *RedisStore) Save(ctx context.Context, session string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKey(session), raw, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, session string) error {
	return r.client.Del(ctx, redisKey(session)).Err()
}
