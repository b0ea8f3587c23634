package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"recipe-ai-backend/internal/utils/metrics"
)

type (
	MemoryConfig struct {
		DefaultTTL time.Duration
		MaxItems   int
		// Clock is overridden in tests.
		Clock func() time.Time
	}

	entry struct {
		value       any
		expiresAt   time.Time
		accessCount int64
		seq         uint64
	}

	// Memory is the in-process TTL cache. When full it drops the tenth of its
	// capacity with the fewest accesses, oldest insertion first on ties.
	Memory struct {
		mu         sync.Mutex
		entries    map[string]*entry
		defaultTTL time.Duration
		maxItems   int
		evictBatch int
		seq        uint64
		now        func() time.Time

		hits      int64
		misses    int64
		evictions int64
	}
)

func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	batch := cfg.MaxItems / 10
	if batch < 1 {
		batch = 1
	}
	return &Memory{
		entries:    make(map[string]*entry),
		defaultTTL: cfg.DefaultTTL,
		maxItems:   cfg.MaxItems,
		evictBatch: batch,
		now:        cfg.Clock,
	}
}

func (m *Memory) Get(_ context.Context, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.recordMiss()
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		m.recordMiss()
		m.recordEvictions(1)
		return nil, false
	}

	e.accessCount++
	m.hits++
	metrics.CacheHits.Inc()
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := m.now().Add(ttl)
	if e, ok := m.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		e.accessCount++
		return
	}

	if len(m.entries) >= m.maxItems {
		m.evictLeastAccessed()
	}

	m.seq++
	m.entries[key] = &entry{
		value:       value,
		expiresAt:   expiresAt,
		accessCount: 1,
		seq:         m.seq,
	}
	metrics.CacheItems.Set(float64(len(m.entries)))
}

// evictLeastAccessed must be called with mu held.
func (m *Memory) evictLeastAccessed() {
	type ranked struct {
		key   string
		count int64
		seq   uint64
	}
	all := make([]ranked, 0, len(m.entries))
	for k, e := range m.entries {
		all = append(all, ranked{key: k, count: e.accessCount, seq: e.seq})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count < all[j].count
		}
		return all[i].seq < all[j].seq
	})

	n := m.evictBatch
	if n > len(all) {
		n = len(all)
	}
	for _, r := range all[:n] {
		delete(m.entries, r.key)
	}
	m.recordEvictions(n)
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	metrics.CacheItems.Set(float64(len(m.entries)))
	m.mu.Unlock()
}

func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	m.entries = make(map[string]*entry)
	metrics.CacheItems.Set(0)
	m.mu.Unlock()
}

func (m *Memory) Stats(_ context.Context) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	expired := 0
	for _, e := range m.entries {
		if !now.Before(e.expiresAt) {
			expired++
		}
	}
	return Stats{
		Backend:     "memory",
		TotalKeys:   len(m.entries),
		ActiveKeys:  len(m.entries) - expired,
		ExpiredKeys: expired,
		MaxItems:    m.maxItems,
		Hits:        m.hits,
		Misses:      m.misses,
		Evictions:   m.evictions,
	}
}

func (m *Memory) recordMiss() {
	m.misses++
	metrics.CacheMisses.Inc()
}

func (m *Memory) recordEvictions(n int) {
	if n <= 0 {
		return
	}
	m.evictions += int64(n)
	metrics.CacheEvictions.Add(float64(n))
	metrics.CacheItems.Set(float64(len(m.entries)))
}
