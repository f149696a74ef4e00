package querycache

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// NamespaceResolver extracts the invalidation namespace for a request,
// typically the authenticated principal's identifier. Returning "" skips
// invalidation for that request.
type NamespaceResolver func(c echo.Context) string

// InvalidateOnWrite returns an echo middleware for write routes that
// drops the resolved namespace from the cache once the response has been
// finalized with a success status, whether or not it carried a body.
// Failed writes (status >= 400) leave the cache untouched, and the hook
// fires exactly once per completed request.
//
// Invalidating only after the response is committed keeps a concurrent
// read from repopulating the cache with pre-write data evicted too early.
// Invalidation failures are logged, never surfaced to the client.
func InvalidateOnWrite(i *Interceptor, resolve NamespaceResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// echo runs after-hooks on every response write; the delete
			// must still happen exactly once per request
			var once sync.Once
			c.Response().After(func() {
				once.Do(func() { invalidate(c, i, resolve) })
			})

			err := next(c)

			// bodyless responses (204 being the usual DELETE shape)
			// commit via WriteHeader alone and never run after-hooks
			if c.Response().Committed {
				once.Do(func() { invalidate(c, i, resolve) })
			}
			return err
		}
	}
}

func invalidate(c echo.Context, i *Interceptor, resolve NamespaceResolver) {
	if c.Response().Status >= http.StatusBadRequest {
		return
	}

	ns := resolve(c)
	if ns == "" {
		return
	}

	// the request context is torn down right after the response; the
	// delete must outlive it
	ctx := context.WithoutCancel(c.Request().Context())
	if err := i.Invalidate(ctx, ns); err != nil {
		slog.Error("cache invalidation failed",
			"namespace", ns,
			"path", c.Request().URL.Path,
			"error", err)
	}
}
