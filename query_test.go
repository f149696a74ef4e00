package querycache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithCacheOptions(t *testing.T) {
	assert := require.New(t)

	tests := map[string]struct {
		opts    CacheOptions
		wantErr bool
	}{
		"plain namespace": {
			opts: CacheOptions{Namespace: "u1"},
		},
		"empty namespace is the no-partition partition": {
			opts: CacheOptions{Namespace: ""},
		},
		"namespace with ttl": {
			opts: CacheOptions{Namespace: "u1", TTL: 10 * time.Second},
		},
		"namespace with separator": {
			opts:    CacheOptions{Namespace: "u1:x"},
			wantErr: true,
		},
		"namespace with whitespace": {
			opts:    CacheOptions{Namespace: "u 1"},
			wantErr: true,
		},
		"namespace with glob wildcard": {
			opts:    CacheOptions{Namespace: "u*"},
			wantErr: true,
		},
		"namespace with glob range": {
			opts:    CacheOptions{Namespace: "u[12]"},
			wantErr: true,
		},
		"principal-shaped namespace": {
			opts: CacheOptions{Namespace: "user@example.com"},
		},
		"negative ttl": {
			opts:    CacheOptions{Namespace: "u1", TTL: -time.Second},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			q := NewQuery("blogs").Where("_user", "u1").WithCacheOptions(tc.opts)
			if tc.wantErr {
				assert.ErrorIs(q.Err(), ErrInvalidAnnotation)
				assert.False(q.Cached())
			} else {
				assert.Nil(q.Err())
				assert.True(q.Cached())
			}
		})
	}
}

func TestQueryBuilderChaining(t *testing.T) {
	assert := require.New(t)

	q := NewQuery("blogs").
		Where("_user", "u1").
		Select("title").
		OrderBy("createdAt", true).
		Limit(10).
		Skip(5).
		WithCacheTTL("u1", 10*time.Second)

	assert.Nil(q.Err())
	assert.Equal("blogs", q.Collection())
	assert.True(q.Cached())
	assert.Equal("u1", q.cacheOpts.Namespace)
	assert.Equal(10*time.Second, q.cacheOpts.TTL)
}
