package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

type entry struct {
	resources []registry.Resource
	timestamp time.Time
}

// MemoryCache keeps resources imported from CRD manifests, keyed by the
// digest of the manifest bytes. Entries expire after ttl.
type MemoryCache struct {
	cache map[string]entry
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
}

// NewMemoryCache creates a new memory-based cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Key returns the cache key of a raw manifest
func Key(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get retrieves cached resources if not expired
func (m *MemoryCache) Get(key string) ([]registry.Resource, bool) {
	m.mu.RLock()
	cached, exists := m.cache[key]
	m.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if m.now().Sub(cached.timestamp) > m.ttl {
		m.mu.Lock()
		delete(m.cache, key)
		m.mu.Unlock()
		return nil, false
	}

	out := make([]registry.Resource, len(cached.resources))
	copy(out, cached.resources)
	return out, true
}

// Set stores resources in cache with timestamp
func (m *MemoryCache) Set(key string, resources []registry.Resource) {
	stored := make([]registry.Resource, len(resources))
	copy(stored, resources)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = entry{resources: stored, timestamp: m.now()}
}

// Size returns the current number of cached items
func (m *MemoryCache) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Clear removes all cached items
func (m *MemoryCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]entry)
}

// cleanup removes expired entries from the cache
func (m *MemoryCache) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, cached := range m.cache {
		if now.Sub(cached.timestamp) > m.ttl {
			delete(m.cache, key)
		}
	}
}

// StartCleanupRoutine removes expired entries every interval until done is closed
func (m *MemoryCache) StartCleanupRoutine(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.cleanup()
			case <-done:
				return
			}
		}
	}()
}
