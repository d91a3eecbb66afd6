package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// ExternalBackend is a Redis-backed Cache. Unlike the disk backend's
// sidecar files, TTL eviction is delegated to Redis itself (SET ... EX);
// expired keys simply stop existing, which is cheaper than re-checking an
// inserted_at timestamp on every read. Hit/miss counters are still tracked
// in-process, mirroring the key-prefix convention used elsewhere in the
// pack for Redis-backed persistence (counter:<key> / marker:<key>).
type ExternalBackend struct {
	client     *redis.Client
	defaultTTL time.Duration

	mu    sync.Mutex
	stats map[string]*NamespaceStats
}

// NewExternalBackend builds a Redis-backed cache from a connection URL
// (e.g. "redis://localhost:6379/0").
func NewExternalBackend(url string, defaultTTL time.Duration) (*ExternalBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, eris.Wrapf(err, "parsing CACHE_EXTERNAL_URL %q", url)
	}
	return &ExternalBackend{
		client:     redis.NewClient(opts),
		defaultTTL: defaultTTL,
		stats:      make(map[string]*NamespaceStats),
	}, nil
}

func redisKey(namespace, key string) string {
	return "fredmcp:cache:" + namespace + ":" + key
}

func (e *ExternalBackend) statFor(namespace string) *NamespaceStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.stats[namespace]
	if !ok {
		s = &NamespaceStats{}
		e.stats[namespace] = s
	}
	return s
}

// record is the JSON envelope stored as the Redis value, carrying the
// payload plus the TTL actually applied (for Snapshot reporting — Redis
// doesn't let us ask "what TTL was this key created with", only "how much
// is left").
type record struct {
	Payload    []byte `json:"payload"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

func (e *ExternalBackend) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	stat := e.statFor(namespace)
	raw, err := e.client.Get(ctx, redisKey(namespace, key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			e.mu.Lock()
			stat.Misses++
			e.mu.Unlock()
			return nil, false, nil
		}
		return nil, false, eris.Wrapf(err, "redis GET %s/%s", namespace, key)
	}

	var rec record
	if jsonErr := json.Unmarshal(raw, &rec); jsonErr != nil {
		e.mu.Lock()
		stat.Misses++
		e.mu.Unlock()
		return nil, false, nil
	}

	e.mu.Lock()
	stat.Hits++
	e.mu.Unlock()
	return rec.Payload, true, nil
}

func (e *ExternalBackend) Set(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL(namespace, e.defaultTTL)
	}
	rec := record{Payload: payload, TTLSeconds: int64(ttl / time.Second)}
	data, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "encoding cache entry")
	}

	if err := e.client.Set(ctx, redisKey(namespace, key), data, ttl).Err(); err != nil {
		return eris.Wrapf(err, "redis SET %s/%s", namespace, key)
	}

	stat := e.statFor(namespace)
	e.mu.Lock()
	stat.TTLSeconds = int64(ttl / time.Second)
	e.mu.Unlock()
	return nil
}

func (e *ExternalBackend) Delete(ctx context.Context, namespace, key string) error {
	if err := e.client.Del(ctx, redisKey(namespace, key)).Err(); err != nil {
		return eris.Wrapf(err, "redis DEL %s/%s", namespace, key)
	}
	return nil
}

func (e *ExternalBackend) Clear(ctx context.Context) error {
	iter := e.client.Scan(ctx, 0, "fredmcp:cache:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return eris.Wrap(err, "redis SCAN for clear")
	}
	if len(keys) > 0 {
		if err := e.client.Del(ctx, keys...).Err(); err != nil {
			return eris.Wrap(err, "redis DEL during clear")
		}
	}
	e.mu.Lock()
	e.stats = make(map[string]*NamespaceStats)
	e.mu.Unlock()
	return nil
}

func (e *ExternalBackend) Snapshot(ctx context.Context) (string, bool, map[string]NamespaceStats, error) {
	connected := true
	if err := e.client.Ping(ctx).Err(); err != nil {
		connected = false
	}

	counts := make(map[string]int)
	if connected {
		iter := e.client.Scan(ctx, 0, "fredmcp:cache:*", 0).Iterator()
		for iter.Next(ctx) {
			ns := namespaceFromRedisKey(iter.Val())
			counts[ns]++
		}
	}

	e.mu.Lock()
	out := make(map[string]NamespaceStats, len(e.stats))
	for ns, s := range e.stats {
		out[ns] = NamespaceStats{TTLSeconds: s.TTLSeconds, Entries: counts[ns], Hits: s.Hits, Misses: s.Misses}
	}
	e.mu.Unlock()

	return "external", connected, out, nil
}

func namespaceFromRedisKey(k string) string {
	const prefix = "fredmcp:cache:"
	if len(k) <= len(prefix) {
		return ""
	}
	rest := k[len(prefix):]
	// Namespaces themselves contain ':' (e.g. "fred:search") while keys are
	// hex digests, so the namespace ends at the last ':'.
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] == ':' {
			return rest[:i]
		}
	}
	return rest
}
