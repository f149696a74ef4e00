package querycache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cachefront/querycache/cache"
)

// DefaultTTL is applied to populated entries when neither the Config nor
// the query annotation provides one.
const DefaultTTL = 30 * time.Second

// Config is the configuration passed to NewInterceptor for creating new
// Interceptor instances.
type Config struct {
	// Store must be set to a type that implements the cache.Store
	// interface which abstracts the backend cache implementation. This is
	// a required field and cannot be nil.
	Store cache.Store
	// DefaultTTL is used for populated entries whose annotation carries no
	// TTL of its own. Defaults to DefaultTTL when zero.
	DefaultTTL time.Duration
	// OnError is called whenever methods of cache.Store, the payload
	// codec or FingerprintFunc return an error. Since querycache does not
	// log any failures, use this hook to observe them.
	OnError func(error)
	// FingerprintFunc can be optionally set to provide a custom cache key
	// derivation. By default querycache uses mitchellh/hashstructure over
	// a canonical form of the query.
	FingerprintFunc FingerprintFunc
}

// Interceptor sits between the data-access layer and its backing store,
// serving annotated read queries from the cache and populating it on
// misses. Writes invalidate a whole namespace through Invalidate.
type Interceptor struct {
	store       cache.Store
	fingerprint FingerprintFunc
	onErr       func(error)
	defaultTTL  time.Duration
	stats       Stats
	disabled    bool
}

// NewInterceptor returns a new instance of the querycache interceptor
// initialised with the provided config.
func NewInterceptor(config *Config) (*Interceptor, error) {
	if config == nil {
		return nil, fmt.Errorf("config can't be nil")
	}

	if config.Store == nil {
		return nil, fmt.Errorf("store must be set in Config")
	}

	if config.FingerprintFunc == nil {
		config.FingerprintFunc = defaultFingerprint
	}

	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTTL
	}

	return &Interceptor{
		store:       config.Store,
		fingerprint: config.FingerprintFunc,
		onErr:       config.OnError,
		defaultTTL:  config.DefaultTTL,
	}, nil
}

// Enable enables the interceptor. Interceptor instance is enabled by
// default on creation.
func (i *Interceptor) Enable() {
	i.disabled = false
}

// Disable disables the interceptor resulting in cache bypass. All queries
// would go directly to the real executor.
func (i *Interceptor) Disable() {
	i.disabled = true
}

// Invalidate removes every cache entry under the namespace. Safe to call
// for a namespace with no entries.
func (i *Interceptor) Invalidate(ctx context.Context, namespace string) error {
	if err := i.store.DeleteNamespace(ctx, namespace); err != nil {
		i.countErr(fmt.Errorf("Store.DeleteNamespace failed: %w", err))
		return err
	}
	atomic.AddUint64(&i.stats.Invalidations, 1)
	return nil
}

// FetchAll executes a sequence-valued query through the interceptor. When
// the query carries no cache annotation, or the interceptor is disabled,
// the call delegates straight to exec. Otherwise a cache hit rehydrates
// the stored payload into []T without invoking exec, and a miss runs exec
// and populates the cache with its result. Executor errors propagate
// unmodified and are never cached; cache backend failures degrade to a
// miss and are reported via OnError only.
func FetchAll[T any](ctx context.Context, i *Interceptor, q *Query, exec func(context.Context, *Query) ([]T, error)) ([]T, error) {
	if q.err != nil {
		return nil, q.err
	}

	ns, fp, ok := i.prepare(q)
	if !ok {
		return exec(ctx, q)
	}

	if payload := i.checkCache(ctx, ns, fp); payload != nil {
		var records []T
		err := msgpack.Unmarshal(payload, &records)
		if err == nil {
			atomic.AddUint64(&i.stats.Hits, 1)
			return records, nil
		}
		// undecodable payload is treated as a miss
		i.countErr(fmt.Errorf("msgpack.Unmarshal failed: %w", err))
	}
	atomic.AddUint64(&i.stats.Misses, 1)

	records, err := exec(ctx, q)
	if err != nil {
		return nil, err
	}

	i.populate(ctx, ns, fp, records, q.cacheOpts.TTL)
	return records, nil
}

// FetchOne is FetchAll for scalar-valued queries.
func FetchOne[T any](ctx context.Context, i *Interceptor, q *Query, exec func(context.Context, *Query) (T, error)) (T, error) {
	var zero T

	if q.err != nil {
		return zero, q.err
	}

	ns, fp, ok := i.prepare(q)
	if !ok {
		return exec(ctx, q)
	}

	if payload := i.checkCache(ctx, ns, fp); payload != nil {
		var record T
		err := msgpack.Unmarshal(payload, &record)
		if err == nil {
			atomic.AddUint64(&i.stats.Hits, 1)
			return record, nil
		}
		i.countErr(fmt.Errorf("msgpack.Unmarshal failed: %w", err))
	}
	atomic.AddUint64(&i.stats.Misses, 1)

	record, err := exec(ctx, q)
	if err != nil {
		return zero, err
	}

	i.populate(ctx, ns, fp, record, q.cacheOpts.TTL)
	return record, nil
}

// prepare decides whether the query takes the cached path and computes
// its fingerprint. ok is false when the call must delegate directly.
func (i *Interceptor) prepare(q *Query) (ns, fp string, ok bool) {
	if i.disabled || q.cacheOpts == nil {
		return "", "", false
	}

	fp, err := i.fingerprint(q)
	if err != nil {
		i.countErr(fmt.Errorf("FingerprintFunc failed: %w", err))
		return "", "", false
	}

	return q.cacheOpts.Namespace, fp, true
}

func (i *Interceptor) checkCache(ctx context.Context, ns, fp string) []byte {
	payload, ok, err := i.store.Get(ctx, ns, fp)
	if err != nil {
		i.countErr(fmt.Errorf("Store.Get failed: %w", err))
		return nil
	}
	if !ok {
		return nil
	}
	return payload
}

// populate serializes the live result and stores it. Failures here must
// not fail the overall call: the caller already holds fresh data.
func (i *Interceptor) populate(ctx context.Context, ns, fp string, result any, ttl time.Duration) {
	payload, err := msgpack.Marshal(result)
	if err != nil {
		i.countErr(fmt.Errorf("msgpack.Marshal failed: %w", err))
		return
	}

	if ttl <= 0 {
		ttl = i.defaultTTL
	}

	if err := i.store.Set(ctx, ns, fp, payload, ttl); err != nil {
		i.countErr(fmt.Errorf("Store.Set failed: %w", err))
	}
}

func (i *Interceptor) countErr(err error) {
	atomic.AddUint64(&i.stats.Errors, 1)
	if i.onErr != nil {
		i.onErr(err)
	}
}

// Stats contains querycache statistics.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Errors        uint64
	Invalidations uint64
}

// Stats returns querycache stats.
func (i *Interceptor) Stats() *Stats {
	return &Stats{
		Hits:          atomic.LoadUint64(&i.stats.Hits),
		Misses:        atomic.LoadUint64(&i.stats.Misses),
		Errors:        atomic.LoadUint64(&i.stats.Errors),
		Invalidations: atomic.LoadUint64(&i.stats.Invalidations),
	}
}
