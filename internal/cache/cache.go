// Package cache implements the namespaced, TTL-evicting store every FRED
// call goes through before hitting the network (spec §4.1). Three backends
// share one capability set — memory, disk, external (Redis) — selected once
// at bootstrap, so hot paths never branch on backend type.
package cache

import (
	"context"
	"time"
)

// Default per-namespace TTLs, tunable via configuration but applied when a
// namespace has no override (spec §4.1).
const (
	TTLSearch       = 300 * time.Second
	TTLMetadata     = 3600 * time.Second
	TTLObservations = 86400 * time.Second
	TTLCategoryTree = 86400 * time.Second
	TTLTags         = 1800 * time.Second
)

// Namespace name constants used consistently by internal/fred and
// internal/tools when calling Get/Set.
const (
	NamespaceSearch       = "fred:search"
	NamespaceMetadata     = "fred:metadata"
	NamespaceObservations = "fred:observations"
	NamespaceCategory     = "fred:category"
	NamespaceTags         = "fred:tags"
)

// DefaultTTL returns the configured default TTL for a namespace, falling
// back to fallback (the CACHE_DEFAULT_TTL config value) for namespaces not
// listed above.
func DefaultTTL(namespace string, fallback time.Duration) time.Duration {
	switch namespace {
	case NamespaceSearch:
		return TTLSearch
	case NamespaceMetadata:
		return TTLMetadata
	case NamespaceObservations:
		return TTLObservations
	case NamespaceCategory:
		return TTLCategoryTree
	case NamespaceTags:
		return TTLTags
	default:
		return fallback
	}
}

// Cache is the capability set every backend implements (spec §8: "a small
// interface {get, set, delete, clear, snapshot}"). Payloads are opaque
// bytes — callers marshal/unmarshal their own JSON, so the cache never
// needs to know about model types.
type Cache interface {
	// Get returns the stored payload for (namespace, key) if present and
	// unexpired. The second return value is false on miss, including when
	// a physically present entry has expired.
	Get(ctx context.Context, namespace, key string) (payload []byte, hit bool, err error)

	// Set stores payload under (namespace, key). If ttl is zero, the
	// namespace's default TTL applies. Overwrites any existing entry.
	Set(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) error

	// Delete removes a single entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// Clear removes every entry across every namespace.
	Clear(ctx context.Context) error

	// Snapshot reports telemetry counters per namespace without mutating
	// state: entry counts, cumulative hits, cumulative misses, and the
	// effective TTL in force.
	Snapshot(ctx context.Context) (Backend string, connected bool, namespaces map[string]NamespaceStats, err error)
}

// NamespaceStats is one row of a Snapshot() result.
type NamespaceStats struct {
	TTLSeconds int64
	Entries    int
	Hits       int64
	Misses     int64
}

// entry is the logical record every backend stores, though the on-wire
// representation differs per backend (in-memory struct, Redis value, JSON
// file on disk).
type entry struct {
	Namespace  string    `json:"namespace"`
	Key        string    `json:"key"`
	Payload    []byte    `json:"payload"`
	InsertedAt time.Time `json:"inserted_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

func (e entry) expired(now time.Time) bool {
	if e.TTLSeconds <= 0 {
		return false
	}
	return now.Sub(e.InsertedAt) > time.Duration(e.TTLSeconds)*time.Second
}

func compositeKey(namespace, key string) string {
	return namespace + "\x1f" + key
}
