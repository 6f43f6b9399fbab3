package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	rs, err := NewRedisStorage(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })
	return rs, mr
}

func TestRedisStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	rs, _ := newTestRedisStorage(t)

	require.NoError(t, rs.Set(ctx, KeyAccessToken, "token-1"))

	value, ok, err := rs.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "token-1", value)
}

func TestRedisStorageMissingKey(t *testing.T) {
	rs, _ := newTestRedisStorage(t)

	_, ok, err := rs.Get(context.Background(), KeyRefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStorageDelete(t *testing.T) {
	ctx := context.Background()
	rs, _ := newTestRedisStorage(t)

	require.NoError(t, rs.Set(ctx, KeyTenantID, "tenant-1"))
	require.NoError(t, rs.Delete(ctx, KeyTenantID))

	_, ok, err := rs.Get(ctx, KeyTenantID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStorageKeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	rs, mr := newTestRedisStorage(t)

	require.NoError(t, rs.Set(ctx, KeyAccessToken, "token-1"))

	got, err := mr.Get(redisKeyPrefix + KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "token-1", got)
}

func TestRedisStorageConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStorage(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestStoreOverRedis(t *testing.T) {
	ctx := context.Background()
	rs, _ := newTestRedisStorage(t)

	store := NewStore(rs, testLogger())
	store.SetAccessToken(ctx, "token-1")
	store.SetTenantID(ctx, "tenant-1")

	// A second replica sharing the same redis sees the login.
	replica := NewStore(rs, testLogger())
	replica.Load(ctx)

	snap := replica.Snapshot()
	assert.Equal(t, "token-1", snap.AccessToken)
	assert.Equal(t, "tenant-1", snap.TenantID)
}
