package cache

import "time"

// BackendKind is the closed set of selectable backends (spec §6,
// CACHE_BACKEND).
type BackendKind string

const (
	BackendMemory   BackendKind = "memory"
	BackendDisk     BackendKind = "disk"
	BackendExternal BackendKind = "external"
)

// Options configures New. DiskRoot is required for BackendDisk,
// ExternalURL for BackendExternal; both are ignored for BackendMemory.
type Options struct {
	Kind       BackendKind
	DefaultTTL time.Duration
	DiskRoot   string
	ExternalURL string
}

// New selects and constructs the configured backend once at bootstrap, per
// spec §8 ("select the backend at bootstrap via configuration, never per
// call").
func New(opts Options) (Cache, error) {
	switch opts.Kind {
	case BackendDisk:
		return NewDiskBackend(opts.DiskRoot, opts.DefaultTTL)
	case BackendExternal:
		return NewExternalBackend(opts.ExternalURL, opts.DefaultTTL)
	case BackendMemory, "":
		return NewMemoryBackend(opts.DefaultTTL), nil
	default:
		return NewMemoryBackend(opts.DefaultTTL), nil
	}
}
