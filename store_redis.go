package querycache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cachefront/querycache/cache"
)

var _ cache.Store = (*Redis)(nil)

const (
	redisScanCount = 256
	redisDelBatch  = 128
)

// SCAN MATCH treats these as glob metacharacters; a namespace flowing
// into the pattern must only ever match itself, never widen the delete
// to other namespaces.
var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"?", `\?`,
	"[", `\[`,
	"]", `\]`,
	"^", `\^`,
)

// Redis implements the cache.Store interface using redis as backend with
// go-redis as the client library. Entries live as plain keys of the form
// <prefix><namespace>:<fingerprint> with redis-native TTL; namespace
// deletion scans the namespace prefix and deletes in batches.
//
// The client is a shared, long-lived resource owned by the caller:
// construct it once at startup and close it at shutdown.
type Redis struct {
	c         redis.UniversalClient
	keyPrefix string
}

// NewRedis creates a new instance of redis backend using go-redis client.
// All keys created in redis by querycache will start with keyPrefix.
func NewRedis(c redis.UniversalClient, keyPrefix string) *Redis {
	return &Redis{
		c:         c,
		keyPrefix: keyPrefix,
	}
}

func (r *Redis) key(namespace, fingerprint string) string {
	return r.keyPrefix + namespace + ":" + fingerprint
}

// Get gets a cached payload from redis. Returns the payload, a boolean
// which represents whether the entry exists or not and an error.
func (r *Redis) Get(ctx context.Context, namespace, fingerprint string) ([]byte, bool, error) {
	b, err := r.c.Get(ctx, r.key(namespace, fingerprint)).Bytes()
	switch err {
	case nil:
		return b, true, nil
	case redis.Nil:
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// Set stores the given payload into redis with provided TTL duration.
func (r *Redis) Set(ctx context.Context, namespace, fingerprint string, payload []byte, ttl time.Duration) error {
	return r.c.Set(ctx, r.key(namespace, fingerprint), payload, ttl).Err()
}

// DeleteNamespace removes all entries under the namespace. A namespace
// with no entries is a no-op.
func (r *Redis) DeleteNamespace(ctx context.Context, namespace string) error {
	pattern := globEscaper.Replace(r.keyPrefix+namespace) + ":*"

	var batch []string
	iter := r.c.Scan(ctx, 0, pattern, redisScanCount).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == redisDelBatch {
			if err := r.c.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(batch) > 0 {
		return r.c.Del(ctx, batch...).Err()
	}
	return nil
}
