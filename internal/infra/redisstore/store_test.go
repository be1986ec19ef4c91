package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, zap.NewNop(), "prospector-test")
}

func TestStore_SetGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "analysis:entries", []byte(`[{"key":"UC1"}]`)))

	data, err := store.Get(ctx, "analysis:entries")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"key":"UC1"}]`), data)
}

func TestStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	data, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	data, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)

	// Idempotent.
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestStore_KeysAreNamespaced(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStore(client, zap.NewNop(), "prospector")
	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))

	val, err := mr.Get("prospector:k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}
