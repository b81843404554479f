package cache

// Store persists raw→normalized description pairs across runs so repeated
// harmonization of the same large vocabulary skips re-normalization.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the cached normalization of raw, if present.
	Get(raw string) (normalized string, ok bool, err error)

	// Put records the normalization of raw.
	Put(raw, normalized string) error

	// Close releases the underlying resources.
	Close() error
}
