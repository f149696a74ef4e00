package querycache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/cachefront/querycache/cache"
)

var _ cache.Store = (*Ristretto)(nil)

// Ristretto implements the cache.Store interface using ristretto as an
// in-process backend. Ristretto has no keyspace scan, so live
// fingerprints are tracked per namespace in a concurrent registry to make
// whole-namespace deletion possible. A Set racing DeleteNamespace for the
// same namespace may survive with no registry entry; the entry's TTL
// bounds how long it can outlive the invalidation.
type Ristretto struct {
	c     *ristretto.Cache
	names *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

// NewRistretto creates a new instance of ristretto backend wrapping the
// provided *ristretto.Cache instance. While creating the ristretto
// instance, please note that payload size in bytes will be used as "cost"
// (in ristretto's terminology) for each cache entry.
func NewRistretto(c *ristretto.Cache) *Ristretto {
	return &Ristretto{
		c:     c,
		names: xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}
}

// Get gets a cached payload from ristretto. Returns the payload, a
// boolean which represents whether the entry exists or not and an error.
func (r *Ristretto) Get(_ context.Context, namespace, fingerprint string) ([]byte, bool, error) {
	v, ok := r.c.Get(namespace + ":" + fingerprint)
	if !ok {
		// the entry expired or was evicted under pressure; drop it from
		// the registry so the namespace's key set doesn't grow unbounded
		if fps, tracked := r.names.Load(namespace); tracked {
			fps.Delete(fingerprint)
		}
		return nil, false, nil
	}

	payload, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("Ristretto.Get(): v.([]byte) failed")
	}

	return payload, true, nil
}

// Set sets the given payload into ristretto with provided TTL duration.
func (r *Ristretto) Set(_ context.Context, namespace, fingerprint string, payload []byte, ttl time.Duration) error {
	fps, _ := r.names.LoadOrStore(namespace, xsync.NewMapOf[string, struct{}]())
	fps.Store(fingerprint, struct{}{})

	// ristretto may reject the write under pressure; that's a miss later,
	// not an error now
	_ = r.c.SetWithTTL(namespace+":"+fingerprint, payload, int64(len(payload)), ttl)
	return nil
}

// DeleteNamespace removes all entries under the namespace. A namespace
// with no entries is a no-op.
func (r *Ristretto) DeleteNamespace(_ context.Context, namespace string) error {
	fps, ok := r.names.LoadAndDelete(namespace)
	if !ok {
		return nil
	}

	fps.Range(func(fingerprint string, _ struct{}) bool {
		r.c.Del(namespace + ":" + fingerprint)
		return true
	})
	return nil
}
