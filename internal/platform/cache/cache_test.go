package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "company", "lookup", "923609016")
	require.NoError(t, err)
	assert.Equal(t, "finreport:company:lookup:923609016:1", key)

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return entry{Name: "EQUINOR ASA"}, nil
	}

	var first, second entry
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "EQUINOR ASA", second.Name)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestFetchJSONDoesNotStoreLoaderErrors(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var dest entry
	err := c.FetchJSON(ctx, "k", &dest, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestBumpChangesKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	before, err := c.BuildKey(ctx, "a")
	require.NoError(t, err)
	ver, err := c.Bump(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)
	after, err := c.BuildKey(ctx, "a")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestNilCacheCallsLoader(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)

	var dest entry
	require.NoError(t, c.FetchJSON(ctx, key, &dest, func(context.Context) (interface{}, error) {
		return entry{Name: "x"}, nil
	}))
	assert.Equal(t, "x", dest.Name)

	ver, err := c.Bump(ctx)
	require.NoError(t, err)
	assert.Zero(t, ver)
}

func TestPingReflectsServerState(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))

	var nilCache *Cache
	assert.NoError(t, nilCache.Ping(context.Background()))
}

func TestFetchJSONReturnsValueWhenWriteFails(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	var dest entry
	err := c.FetchJSON(ctx, "k", &dest, func(context.Context) (interface{}, error) {
		calls++
		mr.SetError("READONLY replica")
		return entry{Name: "EQUINOR ASA"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "EQUINOR ASA", dest.Name)
	assert.Equal(t, 1, calls)

	mr.SetError("")
	assert.False(t, mr.Exists("k"))
}

func TestNewPingsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), mr.Addr(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewFailsForUnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), addr, 200*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache: ping redis at "+addr)
}
