package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/rocketshoes-cart/internal/domain/product"
	"github.com/example/rocketshoes-cart/internal/infrastructure/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
)

// StockGateway reads the current stock of a product
type StockGateway interface {
	GetStock(ctx context.Context, productID int) (*product.Stock, error)
}

// CatalogGateway reads product metadata
type CatalogGateway interface {
	GetProduct(ctx context.Context, productID int) (*product.Product, error)
}

// Publisher receives an Event after every accepted mutation
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Observer is called with a copy of the cart after every accepted mutation.
// Observers run while the store is still serializing mutations, so they must not
// call back into AddProduct, RemoveProduct or UpdateProductAmount synchronously.
type Observer func(Cart)

type Options struct {
	Namespace string
	Stock     StockGateway
	Catalog   CatalogGateway
	Storage   store.KeyValueStore

	// Publisher is optional
	Publisher Publisher
	// Logger is optional, the logrus standard logger is used when nil
	Logger logrus.FieldLogger

	// StrictFirstAdd checks that at least one unit is in stock before a product is
	// added to the cart for the first time.
	StrictFirstAdd bool
}

// Store owns the cart of one shopper. Every mutation validates against stock,
// writes the whole cart to the persistent store and only then replaces the
// in-memory state and notifies observers.
type Store struct {
	namespace      string
	key            string
	stock          StockGateway
	catalog        CatalogGateway
	storage        store.KeyValueStore
	publisher      Publisher
	log            logrus.FieldLogger
	strictFirstAdd bool

	// mu serializes mutations end to end, including gateway calls
	mu sync.Mutex
	// loadMu guards loaded; the cart is read again until one read succeeds
	loadMu sync.Mutex
	loaded bool

	stateMu      sync.RWMutex
	cart         Cart
	observers    map[int]Observer
	nextObserver int
}

func NewStore(opts Options) (*Store, error) {
	if opts.Stock == nil || opts.Catalog == nil {
		return nil, errors.New("cart: stock and catalog gateways are required")
	}
	if opts.Storage == nil {
		return nil, errors.New("cart: storage is required")
	}
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Store{
		namespace:      opts.Namespace,
		key:            StorageKey(opts.Namespace),
		stock:          opts.Stock,
		catalog:        opts.Catalog,
		storage:        opts.Storage,
		publisher:      opts.Publisher,
		log:            logger.WithField("component", "cart"),
		strictFirstAdd: opts.StrictFirstAdd,
		cart:           Cart{},
		observers:      make(map[int]Observer),
	}, nil
}

// Cart returns a copy of the current cart, loading it on first access. While the
// persistent store cannot be read the cart is reported empty.
func (s *Store) Cart() Cart {
	// load logs its own failure
	_ = s.ensureLoaded(context.Background())

	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.cart.clone()
}

// Load forces the initial read from the persistent store. Calling it is optional;
// every other method loads on first use. Once a read succeeded further calls are
// no-ops.
func (s *Store) Load(ctx context.Context) error {
	return s.ensureLoaded(ctx)
}

// Subscribe registers an observer and returns a function removing it
func (s *Store) Subscribe(obs Observer) func() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = obs

	return func() {
		s.stateMu.Lock()
		defer s.stateMu.Unlock()
		delete(s.observers, id)
	}
}

// AddProduct puts one more unit of productID in the cart. A product already in the
// cart is incremented after a stock check; a new product is fetched from the catalog
// and appended with amount 1.
func (s *Store) AddProduct(ctx context.Context, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return s.reject(newError(opAdd, productID, KindAddFailed, err))
	}

	current := s.cart
	if i := current.index(productID); i >= 0 {
		existing := current[i]

		stock, err := s.stock.GetStock(ctx, productID)
		if err != nil {
			return s.reject(newError(opAdd, productID, KindAddFailed, err))
		}
		if !stock.Allows(existing.Amount + 1) {
			return s.reject(newError(opAdd, productID, KindOutOfStock, ErrInsufficientStock))
		}

		next := current.clone()
		next[i].Amount++
		if err := s.commit(ctx, next); err != nil {
			return s.reject(newError(opAdd, productID, KindAddFailed, err))
		}
		s.publish(ctx, EventProductAdded, ProductAddedToCart{
			ProductID: productID,
			Title:     existing.Title,
			Price:     existing.Price,
			Amount:    next[i].Amount,
			AddedAt:   time.Now(),
		})
		return nil
	}

	if s.strictFirstAdd {
		stock, err := s.stock.GetStock(ctx, productID)
		if err != nil {
			return s.reject(newError(opAdd, productID, KindAddFailed, err))
		}
		if !stock.Allows(1) {
			return s.reject(newError(opAdd, productID, KindOutOfStock, ErrInsufficientStock))
		}
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return s.reject(newError(opAdd, productID, KindAddFailed, err))
	}

	item := newLineItem(p, productID)
	next := append(current.clone(), item)
	if err := s.commit(ctx, next); err != nil {
		return s.reject(newError(opAdd, productID, KindAddFailed, err))
	}
	s.publish(ctx, EventProductAdded, ProductAddedToCart{
		ProductID: productID,
		Title:     item.Title,
		Price:     item.Price,
		Amount:    item.Amount,
		AddedAt:   time.Now(),
	})
	return nil
}

// RemoveProduct drops the line item of productID, keeping the order of the others
func (s *Store) RemoveProduct(ctx context.Context, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return s.reject(newError(opRemove, productID, KindRemoveFailed, err))
	}

	current := s.cart
	if current.index(productID) < 0 {
		return s.reject(newError(opRemove, productID, KindRemoveFailed, ErrProductNotInCart))
	}

	if err := s.commit(ctx, current.without(productID)); err != nil {
		return s.reject(newError(opRemove, productID, KindRemoveFailed, err))
	}
	s.publish(ctx, EventProductRemoved, ProductRemovedFromCart{
		ProductID: productID,
		RemovedAt: time.Now(),
	})
	return nil
}

// UpdateProductAmount sets the absolute quantity of a product already in the cart.
// Zero or negative amounts are rejected as out of stock; they never remove the line.
func (s *Store) UpdateProductAmount(ctx context.Context, req UpdateProductAmount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return s.reject(newError(opUpdate, req.ProductID, KindUpdateFailed, err))
	}

	if req.Amount <= 0 {
		return s.reject(newError(opUpdate, req.ProductID, KindOutOfStock, ErrInvalidAmount))
	}

	current := s.cart
	i := current.index(req.ProductID)
	if i < 0 {
		return s.reject(newError(opUpdate, req.ProductID, KindUpdateFailed, ErrProductNotInCart))
	}

	stock, err := s.stock.GetStock(ctx, req.ProductID)
	if err != nil {
		return s.reject(newError(opUpdate, req.ProductID, KindUpdateFailed, err))
	}
	if !stock.Allows(req.Amount) {
		return s.reject(newError(opUpdate, req.ProductID, KindOutOfStock, ErrInsufficientStock))
	}

	oldAmount := current[i].Amount
	next := current.clone()
	next[i].Amount = req.Amount
	if err := s.commit(ctx, next); err != nil {
		return s.reject(newError(opUpdate, req.ProductID, KindUpdateFailed, err))
	}
	s.publish(ctx, EventProductAmountUpdated, ProductAmountUpdated{
		ProductID: req.ProductID,
		OldAmount: oldAmount,
		NewAmount: req.Amount,
		UpdatedAt: time.Now(),
	})
	return nil
}

// commit persists next and, once the write succeeded, swaps it in and notifies
// observers. Callers must hold s.mu.
func (s *Store) commit(ctx context.Context, next Cart) error {
	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, payload); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	s.stateMu.Lock()
	s.cart = next
	observers := make([]Observer, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.stateMu.Unlock()

	for _, obs := range observers {
		obs(next.clone())
	}
	return nil
}

// ensureLoaded reads the persisted cart once. A failed read leaves the store
// unloaded so mutations cannot overwrite a cart that was never seen.
func (s *Store) ensureLoaded(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded {
		return nil
	}

	c, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.stateMu.Lock()
	s.cart = c
	s.stateMu.Unlock()
	s.loaded = true
	return nil
}

// load reads the persisted cart. A missing or unusable value yields an empty cart;
// only a failing read is an error.
func (s *Store) load(ctx context.Context) (Cart, error) {
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Error("Failed to read persisted cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if !ok {
		return Cart{}, nil
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("Persisted cart is not decodable, starting empty")
		return Cart{}, nil
	}
	if !c.valid() {
		s.log.WithField("key", s.key).Warn("Persisted cart breaks line item invariants, starting empty")
		return Cart{}, nil
	}
	if c == nil {
		c = Cart{}
	}

	s.log.WithField("items", len(c)).Debug("Loaded persisted cart")
	return c, nil
}

func (s *Store) publish(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		s.log.WithError(err).Error("Failed to encode cart event")
		return
	}
	event := Event{
		ID:        uuid.New().String(),
		Namespace: s.namespace,
		EventType: eventType,
		Data:      payload,
		Timestamp: time.Now(),
	}
	if err := s.publisher.Publish(ctx, s.namespace, event); err != nil {
		s.log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish cart event")
	}
}

func (s *Store) reject(err *Error) error {
	entry := s.log.WithFields(logrus.Fields{
		"op":         err.Op,
		"product_id": err.ProductID,
		"kind":       err.Kind.String(),
	})
	if err.Kind == KindOutOfStock {
		entry.Info("Cart mutation rejected")
	} else {
		entry.WithError(err.Err).Warn("Cart mutation failed")
	}
	return err
}
