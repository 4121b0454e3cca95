package shopapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/rocketshoes-cart/internal/catalog"
	"github.com/example/rocketshoes-cart/internal/domain/product"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/stock/1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"id":1,"amount":5}`))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"id":1,"title":"Shoe","price":100,"image":"shoe.jpg"}`))
	})
	mux.HandleFunc("/products/2", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{not json`))
	})
	mux.HandleFunc("/stock/3", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"id":3,"amount":-2}`))
	})
	mux.HandleFunc("/stock/500", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/slow/stock/1", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"id":1,"amount":5}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	logger, _ := test.NewNullLogger()
	c, err := NewClient(cfg, nil, logger)
	require.NoError(t, err)
	return c
}

// ============================================
// Construction Tests
// ============================================

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:3333", "://bad"} {
		_, err := NewClient(Config{BaseURL: raw}, nil, nil)
		assert.Error(t, err, raw)
	}
}

// ============================================
// Stock & Product Tests
// ============================================

func TestClient_GetStock(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	s, err := c.GetStock(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, &product.Stock{ID: 1, Amount: 5}, s)
}

func TestClient_GetProduct(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	p, err := c.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, &product.Product{ID: 1, Title: "Shoe", Price: 100, Image: "shoe.jpg"}, p)
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	_, err := c.GetProduct(context.Background(), 99)
	assert.True(t, errors.Is(err, product.ErrProductNotFound))

	_, err = c.GetStock(context.Background(), 99)
	assert.True(t, errors.Is(err, product.ErrStockNotFound))
}

func TestClient_BadPayloads(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	_, err := c.GetProduct(context.Background(), 2)
	assert.Error(t, err)

	_, err = c.GetStock(context.Background(), 3)
	assert.True(t, errors.Is(err, product.ErrInvalidStock))
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	_, err := c.GetStock(context.Background(), 500)

	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Timeout(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL + "/slow", Timeout: 50 * time.Millisecond})

	_, err := c.GetStock(context.Background(), 1)

	assert.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetStock(ctx, 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_ServerDown(t *testing.T) {
	srv, _ := newTestServer(t)
	url := srv.URL
	srv.Close()
	c := newTestClient(t, Config{BaseURL: url})

	_, err := c.GetProduct(context.Background(), 1)
	assert.Error(t, err)
}

// ============================================
// Circuit Breaker Tests
// ============================================

func TestClient_BreakerOpensOnFailures(t *testing.T) {
	srv, hits := newTestServer(t)
	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Breaker: BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute},
	})
	ctx := context.Background()

	_, _ = c.GetStock(ctx, 500)
	_, _ = c.GetStock(ctx, 500)
	before := atomic.LoadInt32(hits)

	_, err := c.GetStock(ctx, 1)

	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, before, atomic.LoadInt32(hits))
}

func TestClient_BreakerIgnoresNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Breaker: BreakerConfig{ConsecutiveFailures: 1, OpenTimeout: time.Minute},
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.GetProduct(ctx, 404)
		assert.True(t, errors.Is(err, product.ErrProductNotFound))
	}

	_, err := c.GetProduct(ctx, 1)
	assert.NoError(t, err)
}

// ============================================
// Catalog Server Tests
// ============================================

func TestClient_AgainstCatalogServer(t *testing.T) {
	repo, err := catalog.Default()
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	srv := httptest.NewServer(catalog.NewHandler(repo, logger).Routes())
	t.Cleanup(srv.Close)

	c := newTestClient(t, Config{BaseURL: srv.URL})
	ctx := context.Background()

	p, err := c.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 139.9, p.Price)

	s, err := c.GetStock(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Amount)

	_, err = c.GetStock(ctx, 42)
	assert.True(t, errors.Is(err, product.ErrStockNotFound))
}
