package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend is an in-process map-backed Cache. Entries do not survive
// process restart. Suitable for single-run debug sessions (cmd/fredctl) and
// as the default when CACHE_BACKEND is unset.
type MemoryBackend struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration

	statsMu sync.Mutex
	stats   map[string]*NamespaceStats
}

// NewMemoryBackend builds an empty in-memory cache. defaultTTL is used for
// namespaces not covered by DefaultTTL's known list.
func NewMemoryBackend(defaultTTL time.Duration) *MemoryBackend {
	return &MemoryBackend{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		stats:      make(map[string]*NamespaceStats),
	}
}

func (m *MemoryBackend) statFor(namespace string) *NamespaceStats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	s, ok := m.stats[namespace]
	if !ok {
		s = &NamespaceStats{}
		m.stats[namespace] = s
	}
	return s
}

func (m *MemoryBackend) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[compositeKey(namespace, key)]
	m.mu.RUnlock()

	stat := m.statFor(namespace)
	if !ok || e.expired(time.Now()) {
		m.statsMu.Lock()
		stat.Misses++
		m.statsMu.Unlock()
		return nil, false, nil
	}
	m.statsMu.Lock()
	stat.Hits++
	m.statsMu.Unlock()

	out := make([]byte, len(e.Payload))
	copy(out, e.Payload)
	return out, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, namespace, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL(namespace, m.defaultTTL)
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)

	m.mu.Lock()
	m.entries[compositeKey(namespace, key)] = entry{
		Namespace:  namespace,
		Key:        key,
		Payload:    cp,
		InsertedAt: time.Now(),
		TTLSeconds: int64(ttl / time.Second),
	}
	m.mu.Unlock()

	stat := m.statFor(namespace)
	m.statsMu.Lock()
	stat.TTLSeconds = int64(ttl / time.Second)
	m.statsMu.Unlock()
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	delete(m.entries, compositeKey(namespace, key))
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
	m.statsMu.Lock()
	m.stats = make(map[string]*NamespaceStats)
	m.statsMu.Unlock()
	return nil
}

func (m *MemoryBackend) Snapshot(_ context.Context) (string, bool, map[string]NamespaceStats, error) {
	now := time.Now()
	counts := make(map[string]int)

	m.mu.RLock()
	for _, e := range m.entries {
		if e.expired(now) {
			continue
		}
		counts[e.Namespace]++
	}
	m.mu.RUnlock()

	m.statsMu.Lock()
	out := make(map[string]NamespaceStats, len(m.stats))
	for ns, s := range m.stats {
		out[ns] = NamespaceStats{
			TTLSeconds: s.TTLSeconds,
			Entries:    counts[ns],
			Hits:       s.Hits,
			Misses:     s.Misses,
		}
	}
	m.statsMu.Unlock()

	for ns, n := range counts {
		if _, ok := out[ns]; !ok {
			out[ns] = NamespaceStats{Entries: n}
		}
	}
	return "memory", true, out, nil
}
