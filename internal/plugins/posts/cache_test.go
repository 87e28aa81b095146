package posts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestFeedCache_RoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewFeedCache(client, 30*time.Second)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	posts := []Post{{ID: 1, Title: "Hello", Author: Author{ID: 2, Name: "Ann"}, Count: Counts{Likes: 3}}}
	require.NoError(t, cache.Set(ctx, 0, posts))
	assert.Equal(t, 30*time.Second, mr.TTL(feedCacheKey))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, posts, got)

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(feedCacheKey))
}

func TestFeedCache_Expires(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewFeedCache(client, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 0, []Post{{ID: 1}}))
	mr.FastForward(11 * time.Second)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFeedCache_CorruptEntry(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewFeedCache(client, time.Minute)

	require.NoError(t, mr.Set(feedCacheKey, "{not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFeedCache_InvalidateBumpsVersion(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	v, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	require.NoError(t, cache.Set(ctx, v, []Post{{ID: 1}}))
	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(feedCacheKey))

	v, err = cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestFeedCache_DropsFillAfterInvalidate(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	v, err := cache.Version(ctx)
	require.NoError(t, err)

	// A write lands between the version read and the fill.
	require.NoError(t, cache.Invalidate(ctx))

	err = cache.Set(ctx, v, []Post{{ID: 1, Title: "old"}})
	assert.ErrorIs(t, err, ErrStaleFeed)
	assert.False(t, mr.Exists(feedCacheKey), "stale feed must not be cached")
}
