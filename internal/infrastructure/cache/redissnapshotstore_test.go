package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/templink/internal/domain/templink"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSnapshotStore_SaveLoad(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisSnapshotStore(client, "test:snapshot")
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, templink.ErrSnapshotNotFound)

	require.NoError(t, store.Save(ctx, []byte(`{"a":{"expiration":"2031-01-01T00:00:00.000Z"}}`)))
	require.NoError(t, store.Save(ctx, []byte(`{}`)))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	stored, err := mr.Get("test:snapshot")
	require.NoError(t, err)
	assert.Equal(t, `{}`, stored)
	assert.Zero(t, mr.TTL("test:snapshot"))
}

func TestRedisSnapshotStore_DefaultKey(t *testing.T) {
	_, client := setupTestRedis(t)
	assert.Equal(t, DefaultSnapshotKey, NewRedisSnapshotStore(client, "").Key())
}

func TestRedisSnapshotStore_ConnectionError(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisSnapshotStore(client, "")
	mr.Close()

	err := store.Save(context.Background(), []byte(`{}`))
	assert.ErrorContains(t, err, "failed to store snapshot in redis")

	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, templink.ErrSnapshotNotFound)
}
