package blob

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"hub-go/internal/hub"
)

// RedisStore implements the BlobStore interface on Redis. The document
// lives at the key itself and the revision in a sidecar <key>:rev counter;
// Put runs inside a WATCH/MULTI transaction so a concurrent writer aborts
// the commit and surfaces as a revision mismatch.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis blob store on the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func revKey(key string) string { return key + ":rev" }

// Get retrieves the document at key along with its current revision.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	pipe := s.client.Pipeline()
	dataCmd := pipe.Get(ctx, key)
	revCmd := pipe.Get(ctx, revKey(key))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, 0, fmt.Errorf("fetching blob: %w", err)
	}

	data, err := dataCmd.Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, 0, hub.ErrNotFound
		}
		return nil, 0, fmt.Errorf("fetching blob: %w", err)
	}

	revision, err := parseRevision(revCmd)
	if err != nil {
		return nil, 0, err
	}
	return data, revision, nil
}

// Put stores data at key when expectedRevision matches the stored revision.
func (s *RedisStore) Put(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	next := expectedRevision + 1

	txf := func(tx *redis.Tx) error {
		current, err := parseRevision(tx.Get(ctx, revKey(key)))
		if err != nil {
			return err
		}
		if current != expectedRevision {
			return hub.ErrRevisionMismatch
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.Set(ctx, revKey(key), strconv.FormatInt(next, 10), 0)
			return nil
		})
		return err
	}

	if err := s.client.Watch(ctx, txf, revKey(key)); err != nil {
		if err == redis.TxFailedErr {
			return 0, hub.ErrRevisionMismatch
		}
		if err == hub.ErrRevisionMismatch {
			return 0, err
		}
		return 0, fmt.Errorf("writing blob: %w", err)
	}
	return next, nil
}

// Ping verifies the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// parseRevision reads a revision counter from a GET result. A missing key
// means revision 0.
func parseRevision(cmd *redis.StringCmd) (int64, error) {
	val, err := cmd.Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("fetching revision: %w", err)
	}
	revision, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing revision: %w", err)
	}
	return revision, nil
}

// Compile-time check that RedisStore implements hub.BlobStore
var _ hub.BlobStore = (*RedisStore)(nil)
