package querycache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/stretchr/testify/require"
)

func newTestRistretto(t *testing.T) (*Ristretto, *ristretto.Cache) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return NewRistretto(c), c
}

func TestRistrettoGetSet(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()

	store, rc := newTestRistretto(t)

	_, ok, err := store.Get(ctx, "u1", "fp1")
	assert.Nil(err)
	assert.False(ok)

	assert.Nil(store.Set(ctx, "u1", "fp1", []byte("payload"), time.Minute))
	rc.Wait()

	payload, ok, err := store.Get(ctx, "u1", "fp1")
	assert.Nil(err)
	assert.True(ok)
	assert.Equal([]byte("payload"), payload)

	_, ok, err = store.Get(ctx, "u2", "fp1")
	assert.Nil(err)
	assert.False(ok)
}

func TestRistrettoTTLExpiry(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()

	store, rc := newTestRistretto(t)

	assert.Nil(store.Set(ctx, "u1", "fp1", []byte("payload"), 50*time.Millisecond))
	rc.Wait()

	_, ok, err := store.Get(ctx, "u1", "fp1")
	assert.Nil(err)
	assert.True(ok)

	time.Sleep(100 * time.Millisecond)

	_, ok, err = store.Get(ctx, "u1", "fp1")
	assert.Nil(err)
	assert.False(ok)

	// the observed miss also retires the fingerprint from the namespace
	// registry
	fps, tracked := store.names.Load("u1")
	assert.True(tracked)
	_, present := fps.Load("fp1")
	assert.False(present)
}

func TestRistrettoDeleteNamespace(t *testing.T) {
	assert := require.New(t)
	ctx := context.Background()

	store, rc := newTestRistretto(t)

	assert.Nil(store.Set(ctx, "u1", "fp1", []byte("a"), time.Minute))
	assert.Nil(store.Set(ctx, "u1", "fp2", []byte("b"), time.Minute))
	assert.Nil(store.Set(ctx, "u2", "fp1", []byte("c"), time.Minute))
	rc.Wait()

	assert.Nil(store.DeleteNamespace(ctx, "u1"))
	rc.Wait()

	for _, fp := range []string{"fp1", "fp2"} {
		_, ok, err := store.Get(ctx, "u1", fp)
		assert.Nil(err)
		assert.False(ok)
	}

	_, ok, err := store.Get(ctx, "u2", "fp1")
	assert.Nil(err)
	assert.True(ok)

	assert.Nil(store.DeleteNamespace(ctx, "ghost"))
}
