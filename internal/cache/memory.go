package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bilgisen/regionews/internal/models"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process Store used when Redis is not configured
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]memoryEntry
	prefix   string
	stateTTL time.Duration
	now      func() time.Time
}

func NewMemoryStore(prefix string, stateTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]memoryEntry),
		prefix:   prefix,
		stateTTL: stateTTL,
		now:      time.Now,
	}
}

func (m *MemoryStore) Close() error {
	return nil
}

// get must be called with m.mu held
func (m *MemoryStore) get(key string) ([]byte, bool) {
	e, ok := m.data[key]
	if !ok {
		return nil, false
	}
	if e.expired(m.now()) {
		delete(m.data, key)
		return nil, false
	}
	return e.value, true
}

// set must be called with m.mu held
func (m *MemoryStore) set(key string, value []byte, ttl time.Duration) {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = e
}

func (m *MemoryStore) LoadState(ctx context.Context, region string) (*models.RegionState, error) {
	m.mu.Lock()
	data, ok := m.get(stateKey(m.prefix, region))
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var state models.RegionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal region state: %w", err)
	}
	return &state, nil
}

func (m *MemoryStore) SaveState(ctx context.Context, state models.RegionState) error {
	// Stored as JSON so callers never share slices with the store
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal region state: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(stateKey(m.prefix, state.Region), data, m.stateTTL)
	return nil
}

func (m *MemoryStore) AcquireRegion(ctx context.Context, region string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := busyKey(m.prefix, region)
	if _, held := m.get(key); held {
		return false, nil
	}
	m.set(key, []byte("1"), ttl)
	return true, nil
}

func (m *MemoryStore) ReleaseRegion(ctx context.Context, region string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, busyKey(m.prefix, region))
	return nil
}

func (m *MemoryStore) ClaimProcessed(ctx context.Context, hash string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := processedKey(m.prefix, hash)
	if _, exists := m.get(key); exists {
		return false, nil
	}
	m.set(key, []byte("1"), ttl)
	return true, nil
}

func (m *MemoryStore) ReleaseProcessed(ctx context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, processedKey(m.prefix, hash))
	return nil
}

// ClearProcessed removes every published marker
func (m *MemoryStore) ClearProcessed(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	marker := processedKey(m.prefix, "")
	for key := range m.data {
		if strings.HasPrefix(key, marker) {
			delete(m.data, key)
		}
	}
	return nil
}
