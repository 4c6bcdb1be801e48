package cart

import (
	"context"
	"sync"
	"time"

	"wanderly/models"
)

// cacheNamespace prefixes every cart cache key.
const cacheNamespace = "cart"

func cacheKey(userID string) string {
	return cacheNamespace + ":" + userID
}

// CachedCart is one cache entry: the last server snapshot and whether it has
// been invalidated since.
type CachedCart struct {
	Cart      *models.Cart `json:"cart"`
	FetchedAt time.Time    `json:"fetchedAt"`
	Stale     bool         `json:"stale"`
}

// CartCache stores per-user cart snapshots. Get returns ErrCacheMiss when no
// snapshot exists. Invalidate marks the snapshot stale and bumps the user's
// generation; Set stores only while the generation still equals gen, so a
// fetch that began before an invalidation cannot publish its older view.
type CartCache interface {
	Get(ctx context.Context, userID string) (*CachedCart, error)
	Generation(ctx context.Context, userID string) (uint64, error)
	Set(ctx context.Context, userID string, cart *models.Cart, gen uint64) (bool, error)
	Invalidate(ctx context.Context, userID string) error
}

// MemoryCartCache keeps snapshots in process memory.
type MemoryCartCache struct {
	mu          sync.RWMutex
	entries     map[string]CachedCart
	generations map[string]uint64
	now         func() time.Time
}

func NewMemoryCartCache() *MemoryCartCache {
	return &MemoryCartCache{
		entries:     make(map[string]CachedCart),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

func (m *MemoryCartCache) Get(_ context.Context, userID string) (*CachedCart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[cacheKey(userID)]
	if !ok {
		return nil, ErrCacheMiss
	}
	entry.Cart = entry.Cart.Clone()
	return &entry, nil
}

func (m *MemoryCartCache) Generation(_ context.Context, userID string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generations[cacheKey(userID)], nil
}

func (m *MemoryCartCache) Set(_ context.Context, userID string, cart *models.Cart, gen uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cacheKey(userID)
	if m.generations[key] != gen {
		return false, nil
	}
	m.entries[key] = CachedCart{
		Cart:      cart.Clone(),
		FetchedAt: m.now(),
	}
	return true, nil
}

func (m *MemoryCartCache) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := cacheKey(userID)
	m.generations[key]++
	if entry, ok := m.entries[key]; ok {
		entry.Stale = true
		m.entries[key] = entry
	}
	return nil
}
