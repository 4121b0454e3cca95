package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/rocketshoes-cart/internal/catalog"
	"github.com/example/rocketshoes-cart/internal/config"
	"github.com/example/rocketshoes-cart/internal/domain/cart"
	"github.com/example/rocketshoes-cart/internal/infrastructure/store"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := catalog.Default()
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	srv := httptest.NewServer(catalog.NewHandler(repo, logger).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenStorage_Drivers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	kv, closeFn, err := OpenStorage(ctx, config.StorageConfig{Driver: config.DriverMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, kv)
	assert.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "cart.json")
	kv, _, err = OpenStorage(ctx, config.StorageConfig{Driver: config.DriverFile, Path: path}, logger)
	require.NoError(t, err)
	assert.Equal(t, path, kv.(*store.FileStore).Path())

	mr := miniredis.RunT(t)
	kv, closeFn, err = OpenStorage(ctx, config.StorageConfig{Driver: config.DriverRedis, RedisAddr: mr.Addr()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &store.RedisStore{}, kv)
	assert.NoError(t, closeFn())

	_, _, err = OpenStorage(ctx, config.StorageConfig{Driver: "mongo"}, logger)
	assert.Error(t, err)
}

func TestNewCart_EndToEnd(t *testing.T) {
	srv := newCatalogServer(t)
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "cart.json")
	cfg := &config.Config{
		Namespace: "@RocketShoes",
		Shop:      config.ShopConfig{BaseURL: srv.URL},
		Storage:   config.StorageConfig{Driver: config.DriverFile, Path: path},
	}
	ctx := context.Background()

	first, err := NewCart(ctx, cfg, logger)
	require.NoError(t, err)
	require.NoError(t, first.Store.AddProduct(ctx, 3))
	require.NoError(t, first.Store.AddProduct(ctx, 3))

	// stock of product 3 is 2
	err = first.Store.AddProduct(ctx, 3)
	assert.ErrorIs(t, err, cart.ErrOutOfStock)

	err = first.Store.AddProduct(ctx, 77)
	assert.ErrorIs(t, err, cart.ErrAddProduct)
	require.NoError(t, first.Close())

	second, err := NewCart(ctx, cfg, logger)
	require.NoError(t, err)
	defer second.Close()

	c := second.Store.Cart()
	require.Len(t, c, 1)
	assert.Equal(t, cart.Product{
		ID:     3,
		Title:  "Tênis Adidas Duramo Lite 2.0",
		Price:  219.9,
		Image:  "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg",
		Amount: 2,
	}, c[0])
}

func TestNewCart_InvalidGateway(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cfg := &config.Config{
		Shop:    config.ShopConfig{BaseURL: "::"},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
	}

	_, err := NewCart(context.Background(), cfg, logger)
	assert.Error(t, err)
}
