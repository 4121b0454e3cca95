// Package app assembles the cart store and its collaborators from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/rocketshoes-cart/internal/config"
	"github.com/example/rocketshoes-cart/internal/domain/cart"
	"github.com/example/rocketshoes-cart/internal/infrastructure/kafka"
	"github.com/example/rocketshoes-cart/internal/infrastructure/shopapi"
	"github.com/example/rocketshoes-cart/internal/infrastructure/store"
	"github.com/sirupsen/logrus"
)

// closers runs cleanup functions in reverse order
type closers []func() error

func (c closers) Close() error {
	var first error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Cart is a wired cart store plus whatever it holds open
type Cart struct {
	Store   *cart.Store
	Gateway *shopapi.Client
	closers closers
}

func (c *Cart) Close() error {
	return c.closers.Close()
}

// NewCart opens storage, the upstream client and the optional event stream
func NewCart(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Cart, error) {
	kv, closeStorage, err := OpenStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	c := &Cart{closers: closers{closeStorage}}

	gw, err := NewGateway(cfg.Shop, nil, log)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Gateway = gw

	opts := cart.Options{
		Namespace:      cfg.Namespace,
		Stock:          gw,
		Catalog:        gw,
		Storage:        kv,
		Logger:         log,
		StrictFirstAdd: cfg.Cart.StrictFirstAdd,
	}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		c.closers = append(c.closers, producer.Close)
		opts.Publisher = producer
		log.WithField("topic", cfg.Kafka.Topic).Info("Publishing cart events to Kafka")
	}

	s, err := cart.NewStore(opts)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store = s
	return c, nil
}

func NewGateway(cfg config.ShopConfig, httpClient *http.Client, log logrus.FieldLogger) (*shopapi.Client, error) {
	return shopapi.NewClient(shopapi.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Breaker: shopapi.BreakerConfig{
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
			OpenTimeout:         cfg.Breaker.OpenTimeout,
		},
	}, httpClient, log)
}

func noop() error { return nil }

// OpenStorage connects the configured persistent store
func OpenStorage(ctx context.Context, cfg config.StorageConfig, log logrus.FieldLogger) (store.KeyValueStore, func() error, error) {
	log = log.WithField("driver", cfg.Driver)

	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage, the cart is lost on exit")
		return store.NewMemoryStore(), noop, nil

	case config.DriverFile:
		log.WithField("path", cfg.Path).Info("Using file storage")
		return store.NewFileStore(cfg.Path), noop, nil

	case config.DriverPostgres:
		db, err := store.ConnectPostgres(cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		ps := store.NewPostgresStore(db)
		if err := ps.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("Connected to PostgreSQL")
		return ps, db.Close, nil

	case config.DriverRedis:
		client, err := store.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to Redis")
		return store.NewRedisStore(client), client.Close, nil

	case config.DriverDynamoDB:
		client, err := newDynamoClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("table", cfg.DynamoTable).Info("Using DynamoDB storage")
		return store.NewDynamoStore(client, cfg.DynamoTable), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func newDynamoClient(ctx context.Context, cfg config.StorageConfig) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.DynamoRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.DynamoRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	}), nil
}
