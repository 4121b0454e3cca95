// Package shopapi talks to the catalog/stock upstream over HTTP.
package shopapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/example/rocketshoes-cart/internal/domain/product"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

// ErrUnexpectedStatus is returned for any non-2xx answer other than 404
var ErrUnexpectedStatus = errors.New("unexpected status from shop api")

// maxBody bounds the bytes read from a single upstream response
const maxBody = 1 << 20

type Config struct {
	BaseURL string
	// Timeout of a single request. Zero means no timeout.
	Timeout time.Duration
	Breaker BreakerConfig
}

// BreakerConfig tunes the circuit breaker in front of the upstream. A zero
// ConsecutiveFailures disables the breaker.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// Client implements the stock and catalog gateways of the cart.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     logrus.FieldLogger
}

func NewClient(cfg Config, httpClient *http.Client, logger logrus.FieldLogger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid shop api base url %q", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &Client{
		baseURL: u,
		http:    httpClient,
		log:     logger.WithField("component", "shopapi"),
	}
	if cfg.Breaker.ConsecutiveFailures > 0 {
		c.breaker = newBreaker(cfg.Breaker, c.log)
	}
	return c, nil
}

func newBreaker(cfg BreakerConfig, log logrus.FieldLogger) *gobreaker.CircuitBreaker[[]byte] {
	st := gobreaker.Settings{
		Name:        "shop-api",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// Unknown ids are answers, not outages
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, product.ErrProductNotFound) || errors.Is(err, product.ErrStockNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("Circuit breaker state changed")
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](st)
}

// GetStock fetches GET /stock/{id}
func (c *Client) GetStock(ctx context.Context, productID int) (*product.Stock, error) {
	body, err := c.get(ctx, "/stock/"+strconv.Itoa(productID), product.ErrStockNotFound)
	if err != nil {
		return nil, errors.Wrapf(err, "get stock %d", productID)
	}

	var s product.Stock
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, errors.Wrapf(err, "decode stock %d", productID)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetProduct fetches GET /products/{id}
func (c *Client) GetProduct(ctx context.Context, productID int) (*product.Product, error) {
	body, err := c.get(ctx, "/products/"+strconv.Itoa(productID), product.ErrProductNotFound)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %d", productID)
	}

	var p product.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Wrapf(err, "decode product %d", productID)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, path string, notFound error) ([]byte, error) {
	if c.breaker == nil {
		return c.do(ctx, path, notFound)
	}
	return c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path, notFound)
	})
}

func (c *Client) do(ctx context.Context, path string, notFound error) ([]byte, error) {
	u := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode}).Debug("Upstream answered with an error")
		return nil, errors.Wrapf(ErrUnexpectedStatus, "status %d", resp.StatusCode)
	}
	return body, nil
}
