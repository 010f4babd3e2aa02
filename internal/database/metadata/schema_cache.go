package metadata

import (
	"context"
	"sync"
	"time"

	"schema-forge/internal/schema"
)

// SchemaCache caches table attribute metadata to avoid repeated introspection queries
type SchemaCache struct {
	cache      map[string]*CachedTable
	mutex      sync.RWMutex
	ttl        time.Duration
	cleanupInt time.Duration
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// CachedTable is the cached metadata of one table
type CachedTable struct {
	Table      string
	Attributes schema.RawAttributes
	CachedAt   time.Time
	ExpiresAt  time.Time
}

// NewSchemaCache creates a new schema cache
func NewSchemaCache(ttl time.Duration) *SchemaCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &SchemaCache{
		cache:      make(map[string]*CachedTable),
		ttl:        ttl,
		cleanupInt: 10 * time.Minute,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the background cleanup process
func (sc *SchemaCache) Start(ctx context.Context) {
	ticker := time.NewTicker(sc.cleanupInt)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sc.stopChan:
			return
		case <-ticker.C:
			sc.cleanupExpired()
		}
	}
}

// Stop stops the background cleanup process
func (sc *SchemaCache) Stop() {
	sc.stopOnce.Do(func() { close(sc.stopChan) })
}

// Get retrieves cached attributes for a table
func (sc *SchemaCache) Get(table string) (schema.RawAttributes, bool) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	cached, exists := sc.cache[table]
	if !exists || time.Now().After(cached.ExpiresAt) {
		return nil, false
	}
	return cached.Attributes, true
}

// Set stores table attributes in cache
func (sc *SchemaCache) Set(table string, attributes schema.RawAttributes) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	now := time.Now()
	sc.cache[table] = &CachedTable{
		Table:      table,
		Attributes: attributes,
		CachedAt:   now,
		ExpiresAt:  now.Add(sc.ttl),
	}
}

// Invalidate removes cached metadata for a table
func (sc *SchemaCache) Invalidate(table string) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	delete(sc.cache, table)
}

// Refresh returns cached metadata, extracting it if expired or missing
func (sc *SchemaCache) Refresh(ctx context.Context, table string, extractor Extractor) (schema.RawAttributes, error) {
	if attrs, ok := sc.Get(table); ok {
		return attrs, nil
	}

	attrs, err := extractor.ExtractTable(ctx, table)
	if err != nil {
		return nil, err
	}

	sc.Set(table, attrs)
	return attrs, nil
}

// cleanupExpired removes all expired entries from cache
func (sc *SchemaCache) cleanupExpired() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	now := time.Now()
	for table, cached := range sc.cache {
		if now.After(cached.ExpiresAt) {
			delete(sc.cache, table)
		}
	}
}

// GetStats returns cache statistics
func (sc *SchemaCache) GetStats() CacheStats {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	total := len(sc.cache)
	expired := 0
	now := time.Now()
	for _, cached := range sc.cache {
		if now.After(cached.ExpiresAt) {
			expired++
		}
	}

	return CacheStats{
		TotalEntries:   total,
		ActiveEntries:  total - expired,
		ExpiredEntries: expired,
		TTL:            sc.ttl,
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalEntries   int           `json:"totalEntries"`
	ActiveEntries  int           `json:"activeEntries"`
	ExpiredEntries int           `json:"expiredEntries"`
	TTL            time.Duration `json:"ttl"`
}

// Clear clears all cache entries
func (sc *SchemaCache) Clear() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	sc.cache = make(map[string]*CachedTable)
}
