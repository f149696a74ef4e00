/*
Package querycache provides a transparent read-through, write-invalidate
cache that sits between an application's data-access layer and its backing
store. Annotated read queries are served from the cache when possible and
populate it otherwise; successful writes invalidate every cached result in
the acting principal's namespace.

Usage:

	import (
		"github.com/redis/go-redis/v9"

		"github.com/cachefront/querycache"
	)

	func main() {
		...
		rc := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{"127.0.0.1:6379"},
		})

		// create a querycache.Interceptor instance with the desired backend
		interceptor, err := querycache.NewInterceptor(&querycache.Config{
			Store: querycache.NewRedis(rc, "qc:"),
		})
		...
	}

Caching is opt-in per query. Only queries annotated with WithCache are
cached; everything else delegates straight to the real executor:

	q := querycache.NewQuery("blogs").
		Where("_user", "u1").
		WithCacheTTL("u1", 10*time.Second)

	blogs, err := querycache.FetchAll(ctx, interceptor, q, store.FindBlogs)

Cache hits rehydrate the stored payload into the executor's native record
type; the real executor is not touched. Cache backend failures are
invisible to callers: lookups degrade to misses and population failures
are dropped after reporting through Config.OnError.

Writes clear the namespace they affect. Install the invalidation hook on
write routes so the namespace is dropped only after a successful response
has been finalized:

	e.POST("/blogs", createBlog,
		querycache.InvalidateOnWrite(interceptor, principalNamespace))
*/
package querycache
