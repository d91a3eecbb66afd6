package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// DiskBackend stores one JSON file per (namespace, key) pair under Root. That
// one file holds the payload together with inserted_at and ttl_seconds; no
// separate sidecar file is written next to it. Writes are atomic: the whole
// entry is written to a temp file in the same directory and renamed into
// place, a swap-in per entry rather than a whole database file, since
// there's no single embedded database here to compact.
type DiskBackend struct {
	root       string
	defaultTTL time.Duration

	mu    sync.Mutex
	stats map[string]*NamespaceStats
}

// sidecar is the on-disk envelope for one cache entry.
type sidecar struct {
	Namespace  string    `json:"namespace"`
	Key        string    `json:"key"`
	InsertedAt time.Time `json:"inserted_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
	Payload    []byte    `json:"payload"`
}

// NewDiskBackend opens (creating if absent) a disk cache rooted at root.
func NewDiskBackend(root string, defaultTTL time.Duration) (*DiskBackend, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, eris.Wrapf(err, "creating cache root %s", root)
	}
	return &DiskBackend{root: root, defaultTTL: defaultTTL, stats: make(map[string]*NamespaceStats)}, nil
}

// pathFor maps (namespace, key) to a flat filename under a per-namespace
// subdirectory, so Clear() and directory listing stay cheap.
func (d *DiskBackend) pathFor(namespace, key string) string {
	return filepath.Join(d.root, sanitize(namespace), sanitize(key)+".json")
}

// sanitize replaces path separators so namespace/key values can never
// escape the cache root or collide across directory levels.
func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '/', '\\', '\x00':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "_"
	}
	return string(out)
}

func (d *DiskBackend) statFor(namespace string) *NamespaceStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.stats[namespace]
	if !ok {
		s = &NamespaceStats{}
		d.stats[namespace] = s
	}
	return s
}

func (d *DiskBackend) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	stat := d.statFor(namespace)
	path := d.pathFor(namespace, key)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			d.mu.Lock()
			stat.Misses++
			d.mu.Unlock()
			return nil, false, nil
		}
		return nil, false, eris.Wrapf(err, "reading cache entry %s/%s", namespace, key)
	}

	var sc sidecar
	if err := json.Unmarshal(raw, &sc); err != nil {
		// A corrupt sidecar is treated as a miss, not a hard failure
		// (spec §5 edge cases).
		d.mu.Lock()
		stat.Misses++
		d.mu.Unlock()
		return nil, false, nil
	}

	e := entry{Namespace: sc.Namespace, Key: sc.Key, Payload: sc.Payload, InsertedAt: sc.InsertedAt, TTLSeconds: sc.TTLSeconds}
	if e.expired(time.Now()) {
		d.mu.Lock()
		stat.Misses++
		d.mu.Unlock()
		_ = os.Remove(path)
		return nil, false, nil
	}

	d.mu.Lock()
	stat.Hits++
	d.mu.Unlock()
	return sc.Payload, true, nil
}

func (d *DiskBackend) Set(_ context.Context, namespace, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL(namespace, d.defaultTTL)
	}

	dir := filepath.Join(d.root, sanitize(namespace))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return eris.Wrapf(err, "creating namespace dir %s", dir)
	}

	sc := sidecar{
		Namespace:  namespace,
		Key:        key,
		InsertedAt: time.Now(),
		TTLSeconds: int64(ttl / time.Second),
		Payload:    payload,
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return eris.Wrap(err, "encoding cache entry")
	}

	path := d.pathFor(namespace, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return eris.Wrapf(err, "writing temp cache file %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return eris.Wrapf(err, "renaming cache file into place %s", path)
	}

	stat := d.statFor(namespace)
	d.mu.Lock()
	stat.TTLSeconds = int64(ttl / time.Second)
	d.mu.Unlock()
	return nil
}

func (d *DiskBackend) Delete(_ context.Context, namespace, key string) error {
	err := os.Remove(d.pathFor(namespace, key))
	if err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "deleting cache entry %s/%s", namespace, key)
	}
	return nil
}

func (d *DiskBackend) Clear(_ context.Context) error {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "listing cache root %s", d.root)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := os.RemoveAll(filepath.Join(d.root, e.Name())); err != nil {
			return eris.Wrapf(err, "clearing namespace dir %s", e.Name())
		}
	}
	d.mu.Lock()
	d.stats = make(map[string]*NamespaceStats)
	d.mu.Unlock()
	return nil
}

func (d *DiskBackend) Snapshot(_ context.Context) (string, bool, map[string]NamespaceStats, error) {
	nsDirs, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return "disk", true, map[string]NamespaceStats{}, nil
		}
		return "disk", false, nil, eris.Wrapf(err, "listing cache root %s", d.root)
	}

	counts := make(map[string]int)
	now := time.Now()
	for _, nsDir := range nsDirs {
		if !nsDir.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(d.root, nsDir.Name()))
		if err != nil {
			continue
		}
		var n int
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(d.root, nsDir.Name(), f.Name()))
			if err != nil {
				continue
			}
			var sc sidecar
			if err := json.Unmarshal(raw, &sc); err != nil {
				continue
			}
			e := entry{InsertedAt: sc.InsertedAt, TTLSeconds: sc.TTLSeconds}
			if !e.expired(now) {
				n++
			}
		}
		counts[nsDir.Name()] = n
	}

	d.mu.Lock()
	out := make(map[string]NamespaceStats, len(d.stats))
	for ns, s := range d.stats {
		out[ns] = NamespaceStats{TTLSeconds: s.TTLSeconds, Entries: counts[sanitize(ns)], Hits: s.Hits, Misses: s.Misses}
	}
	d.mu.Unlock()

	return "disk", true, out, nil
}
