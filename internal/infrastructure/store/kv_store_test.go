package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKeyValueStoreContract checks the behaviour every KeyValueStore must share
func runKeyValueStoreContract(t *testing.T, s KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		value, ok, err := s.Get(ctx, "@RocketShoes:missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":2}]`)))

		value, ok, err := s.Get(ctx, "@RocketShoes:cart")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `[{"id":1,"amount":2}]`, string(value))
	})

	t.Run("set replaces previous value", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":2},{"id":2,"amount":1}]`)))
		require.NoError(t, s.Set(ctx, "@RocketShoes:cart", []byte(`[]`)))

		value, ok, err := s.Get(ctx, "@RocketShoes:cart")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", string(value))
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), ErrEmptyKey)
	})
}

// ============================================
// Backend Contract Tests
// ============================================

func TestMemoryStore_Contract(t *testing.T) {
	runKeyValueStoreContract(t, NewMemoryStore())
}

func TestFileStore_Contract(t *testing.T) {
	runKeyValueStoreContract(t, NewFileStore(filepath.Join(t.TempDir(), "storage.json")))
}

func TestRedisStore_Contract(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	runKeyValueStoreContract(t, NewRedisStore(client))
}

func TestDynamoStore_Contract(t *testing.T) {
	runKeyValueStoreContract(t, NewDynamoStore(newFakeDynamo(), "cart-storage"))
}

// ============================================
// Backend Specific Tests
// ============================================

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", original))
	original[0] = 'x'

	value, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value))

	value[1] = 'y'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
	assert.Equal(t, 1, s.Len())
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	ctx := context.Background()

	first := NewFileStore(path)
	require.NoError(t, first.Set(ctx, "@RocketShoes:cart", []byte(`[{"id":3}]`)))
	require.NoError(t, first.Set(ctx, "other", []byte(`x`)))

	reopened := NewFileStore(path)
	value, ok, err := reopened.Get(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":3}]`, string(value))
	assert.Equal(t, path, reopened.Path())
}

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, writeFile(path, "{not json"))

	_, _, err := NewFileStore(path).Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisStore_NoExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStore(client)
	require.NoError(t, s.Set(context.Background(), "@RocketShoes:cart", []byte("[]")))

	assert.Equal(t, "[]", mustGet(t, mr, "@RocketShoes:cart"))
	assert.Zero(t, mr.TTL("@RocketShoes:cart"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	s := NewRedisStore(client)
	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(context.Background(), "k", []byte("v")))
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	urlClient, err := ConnectRedis(context.Background(), "redis://"+mr.Addr()+"/0", "", 0)
	require.NoError(t, err)
	defer urlClient.Close()
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	value, err := mr.Get(key)
	require.NoError(t, err)
	return value
}
