package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memItem struct {
	value   []byte
	expires time.Time
}

func (it memItem) expired(now time.Time) bool {
	return !it.expires.IsZero() && now.After(it.expires)
}

// MemoryCache keeps entries in process memory. Used with CACHE_DRIVER=memory and in tests.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memItem
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: map[string]memItem{}, now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest any) bool {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	if it.expired(m.now()) {
		m.evict(key)
		return false
	}

	return json.Unmarshal(it.value, dest) == nil
}

// evict removes key only if the stored entry is still expired, so a concurrent Set is kept.
func (m *MemoryCache) evict(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if it, ok := m.items[key]; ok && it.expired(m.now()) {
		delete(m.items, key)
	}
}

func (m *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshall cache value: %w", err)
	}

	it := memItem{value: b}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = it
	m.mu.Unlock()

	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}
