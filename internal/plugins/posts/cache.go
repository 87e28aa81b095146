package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedCacheKey is the Redis key holding the serialized post feed.
	feedCacheKey = "posts:feed"

	// feedVersionKey is bumped on every invalidation. A fill only lands if
	// the version it read before querying the database is still current.
	feedVersionKey = "posts:feed:version"
)

// ErrStaleFeed is returned by Set when the feed was invalidated after the
// caller read its version. The fill is dropped.
var ErrStaleFeed = errors.New("post feed changed during fill")

// FeedCache stores the rendered post list between writes.
type FeedCache interface {
	// Get returns the cached feed and whether it was present.
	Get(ctx context.Context) ([]Post, bool, error)
	// Version returns the current invalidation counter. Read it before
	// loading the feed from the database and pass it to Set.
	Version(ctx context.Context) (int64, error)
	Set(ctx context.Context, version int64, posts []Post) error
	Invalidate(ctx context.Context) error
}

// redisFeedCache implements FeedCache on a feed key guarded by a version
// counter.
type redisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a Redis-backed feed cache. Entries expire after ttl
// even if no write invalidates them.
func NewFeedCache(client *redis.Client, ttl time.Duration) FeedCache {
	return &redisFeedCache{client: client, ttl: ttl}
}

func (c *redisFeedCache) Get(ctx context.Context) ([]Post, bool, error) {
	data, err := c.client.Get(ctx, feedCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading feed cache: %w", err)
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, false, fmt.Errorf("decoding feed cache: %w", err)
	}
	return posts, true, nil
}

func (c *redisFeedCache) Version(ctx context.Context) (int64, error) {
	return readFeedVersion(ctx, c.client)
}

// Set writes the feed only if nothing invalidated it since version was
// read. The check and the write run under WATCH so a concurrent
// Invalidate aborts the fill instead of being overwritten.
func (c *redisFeedCache) Set(ctx context.Context, version int64, posts []Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encoding feed cache: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readFeedVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return ErrStaleFeed
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, feedCacheKey, data, c.ttl)
			return nil
		})
		return err
	}, feedVersionKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleFeed), errors.Is(err, redis.TxFailedErr):
		return ErrStaleFeed
	default:
		return fmt.Errorf("writing feed cache: %w", err)
	}
}

func (c *redisFeedCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, feedVersionKey)
		pipe.Del(ctx, feedCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidating feed cache: %w", err)
	}
	return nil
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// readFeedVersion treats a missing counter as version 0.
func readFeedVersion(ctx context.Context, cmd stringGetter) (int64, error) {
	v, err := cmd.Get(ctx, feedVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading feed version: %w", err)
	}
	return v, nil
}
