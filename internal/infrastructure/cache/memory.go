package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aigymos/gym-console/internal/domain/repositories"
)

var _ repositories.PayloadCache = (*MemoryStore)(nil)

// MemoryStore is an in-process payload cache with expiration, used when
// Redis is disabled. Values are stored JSON-encoded so readers never share
// memory with writers.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
	now   func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

type memoryItem struct {
	value      []byte
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store. Expired items are swept every
// cleanupInterval until Close is called; a non-positive interval disables
// the sweeper.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		now:   time.Now,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go store.cleanupExpired(cleanupInterval)
	} else {
		close(store.done)
	}

	return store
}

// Get decodes a live entry into dst
func (ms *MemoryStore) Get(_ context.Context, key string, dst any) bool {
	ms.mu.RLock()
	item, exists := ms.items[key]
	ms.mu.RUnlock()

	if !exists || ms.now().After(item.expireTime) {
		return false
	}
	return json.Unmarshal(item.value, dst) == nil
}

// Set stores value with expiration
func (ms *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = &memoryItem{
		value:      data,
		expireTime: ms.now().Add(ttl),
	}
}

// Delete removes keys
func (ms *MemoryStore) Delete(_ context.Context, keys ...string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, key := range keys {
		delete(ms.items, key)
	}
}

// Len reports the number of stored entries, expired ones included
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.items)
}

// Close stops the sweeper and waits for it to exit
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	<-ms.done
	return nil
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(interval time.Duration) {
	defer close(ms.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.sweep()
		}
	}
}

func (ms *MemoryStore) sweep() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, item := range ms.items {
		if now.After(item.expireTime) {
			delete(ms.items, key)
		}
	}
}
