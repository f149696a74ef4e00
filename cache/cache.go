package cache

import (
	"context"
	"time"
)

// Store represents a backend cache that can be used by the querycache
// package. The keyspace is two-level: a caller-chosen namespace groups
// entries that must be invalidated together, and a fingerprint identifies
// one query result within the namespace.
type Store interface {
	// Get must return the stored payload, a boolean representing whether
	// the entry is present and unexpired, and an error (must be nil when
	// the entry is simply absent).
	Get(ctx context.Context, namespace, fingerprint string) ([]byte, bool, error)
	// Set stores the payload under (namespace, fingerprint) with the given
	// TTL, overwriting any existing entry.
	Set(ctx context.Context, namespace, fingerprint string, payload []byte, ttl time.Duration) error
	// DeleteNamespace removes every entry under the namespace in one
	// logical operation. Deleting a namespace with no entries is a no-op,
	// not an error.
	DeleteNamespace(ctx context.Context, namespace string) error
}
