package querycache

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidAnnotation is returned when a query carries a cache annotation
// that cannot be used, e.g. a namespace containing the key separator.
var ErrInvalidAnnotation = errors.New("querycache: invalid cache annotation")

// namespaces become part of backend keys and delete patterns, so they
// are restricted to an identifier alphabet: no separator, whitespace or
// glob metacharacters. Empty is allowed: it is the "no partition"
// partition for queries that never need invalidation.
var namespaceRegexp = regexp.MustCompile(`^[A-Za-z0-9_.@-]*$`)

// SortField is one element of a query's sort order.
type SortField struct {
	Field string
	Desc  bool
}

// CacheOptions controls caching of a single query instance.
type CacheOptions struct {
	// Namespace partitions cache entries for invalidation. All entries
	// that must be dropped together on a write share one namespace,
	// typically the acting principal's identifier.
	Namespace string
	// TTL overrides the interceptor's default TTL when positive.
	TTL time.Duration
}

// Validate checks that the options can be used as cache keys.
func (o CacheOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Namespace, validation.Match(namespaceRegexp).
			Error("must contain only letters, digits, '_', '.', '@' or '-'")),
		validation.Field(&o.TTL, validation.Min(time.Duration(0))),
	)
}

// Query is the immutable shape of a pending read: target collection,
// filter predicates, projection, sort order and pagination bounds.
// Build one with NewQuery and the chainable methods; builder errors stick
// to the query and surface when it is executed.
type Query struct {
	collection string
	filter     map[string]any
	projection []string
	sort       []SortField
	limit      int64
	skip       int64

	cacheOpts *CacheOptions
	err       error
}

// NewQuery returns a query targeting the named collection.
func NewQuery(collection string) *Query {
	return &Query{
		collection: collection,
		filter:     make(map[string]any),
	}
}

// Where adds an equality/predicate condition on a field. Calling Where
// again for the same field overwrites the earlier condition.
func (q *Query) Where(field string, value any) *Query {
	q.filter[field] = value
	return q
}

// Select restricts the fields returned by the query.
func (q *Query) Select(fields ...string) *Query {
	q.projection = append(q.projection, fields...)
	return q
}

// OrderBy appends a sort field. Order of OrderBy calls is significant.
func (q *Query) OrderBy(field string, desc bool) *Query {
	q.sort = append(q.sort, SortField{Field: field, Desc: desc})
	return q
}

// Limit bounds the number of records returned.
func (q *Query) Limit(n int64) *Query {
	q.limit = n
	return q
}

// Skip skips the first n matching records.
func (q *Query) Skip(n int64) *Query {
	q.skip = n
	return q
}

// WithCache enables caching for this query instance under the given
// invalidation namespace. Caching is opt-in per query; queries without an
// annotation always go to the real executor.
func (q *Query) WithCache(namespace string) *Query {
	return q.WithCacheOptions(CacheOptions{Namespace: namespace})
}

// WithCacheTTL is WithCache with a per-query TTL override.
func (q *Query) WithCacheTTL(namespace string, ttl time.Duration) *Query {
	return q.WithCacheOptions(CacheOptions{Namespace: namespace, TTL: ttl})
}

// WithCacheOptions attaches a validated cache annotation to the query.
// Invalid options stick as an error on the query and surface on execution.
func (q *Query) WithCacheOptions(opts CacheOptions) *Query {
	if err := opts.Validate(); err != nil {
		q.err = fmt.Errorf("%w: %v", ErrInvalidAnnotation, err)
		return q
	}
	q.cacheOpts = &opts
	return q
}

// Err reports the first error encountered while building the query.
func (q *Query) Err() error {
	return q.err
}

// Collection returns the query's target collection name.
func (q *Query) Collection() string {
	return q.collection
}

// Filter returns a copy of the query's predicate map.
func (q *Query) Filter() map[string]any {
	out := make(map[string]any, len(q.filter))
	for k, v := range q.filter {
		out[k] = v
	}
	return out
}

// Cached reports whether the query carries a cache annotation.
func (q *Query) Cached() bool {
	return q.cacheOpts != nil
}
