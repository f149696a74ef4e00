package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cachefront/querycache"
	"github.com/cachefront/querycache/cache"
)

const (
	defaultCacheBytes = 64 << 20
	blogCacheTTL      = 10 * time.Second
)

// Blog is the data layer's native record type. Cache hits rehydrate
// straight into it.
type Blog struct {
	ID    string `json:"id" msgpack:"id"`
	User  string `json:"user" msgpack:"user"`
	Title string `json:"title" msgpack:"title"`
	Body  string `json:"body" msgpack:"body"`
}

// blogStore is a stand-in for the real backing store. Find deliberately
// sleeps so cache hits are visible in response latency.
type blogStore struct {
	mu    sync.RWMutex
	blogs []Blog
}

func (s *blogStore) Find(_ context.Context, q *querycache.Query) ([]Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	time.Sleep(50 * time.Millisecond) // pretend this is expensive

	user, _ := q.Filter()["_user"].(string)
	var out []Blog
	for _, b := range s.blogs {
		if b.User == user {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *blogStore) Insert(b Blog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blogs = append(s.blogs, b)
}

func principal(c echo.Context) string {
	return c.Request().Header.Get("X-Principal")
}

func newRistrettoStore(maxBytes int64) (cache.Store, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxBytes / 100,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return querycache.NewRistretto(c), nil
}

func newRedisStore() (cache.Store, error) {
	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{"127.0.0.1:6379"},
	})

	if err := r.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return querycache.NewRedis(r, "qc:"), nil
}

func main() {
	store, err := newRistrettoStore(defaultCacheBytes)
	if err != nil {
		log.Fatalf("newRistrettoStore() failed: %v", err)
	}

	/*
		store, err := newRedisStore()
		if err != nil {
			log.Fatalf("newRedisStore() failed: %v", err)
		}
	*/

	interceptor, err := querycache.NewInterceptor(&querycache.Config{
		Store: store,
		OnError: func(err error) {
			slog.Warn("querycache degraded", "error", err)
		},
	})
	if err != nil {
		log.Fatalf("NewInterceptor() failed: %v", err)
	}

	blogs := &blogStore{}

	e := echo.New()
	e.HideBanner = true

	e.GET("/blogs", func(c echo.Context) error {
		user := principal(c)
		q := querycache.NewQuery("blogs").
			Where("_user", user).
			WithCacheTTL(user, blogCacheTTL)

		result, err := querycache.FetchAll(c.Request().Context(), interceptor, q, blogs.Find)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, result)
	})

	e.POST("/blogs", func(c echo.Context) error {
		var b Blog
		if err := c.Bind(&b); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		b.User = principal(c)
		blogs.Insert(b)
		return c.JSON(http.StatusCreated, b)
	}, querycache.InvalidateOnWrite(interceptor, principal))

	e.GET("/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, interceptor.Stats())
	})

	if err := e.Start(":8080"); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server exited: %v", err)
	}
}
