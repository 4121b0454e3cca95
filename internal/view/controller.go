package view

import (
	"context"
	"errors"

	"github.com/example/rocketshoes-cart/internal/domain/cart"
)

// ErrCheckoutUnavailable is returned by Checkout; orders are not placed from the cart
var ErrCheckoutUnavailable = errors.New("checkout is not available")

// CartStore is the part of *cart.Store the page talks to
type CartStore interface {
	Cart() cart.Cart
	Subscribe(obs cart.Observer) func()
	AddProduct(ctx context.Context, productID int) error
	RemoveProduct(ctx context.Context, productID int) error
	UpdateProductAmount(ctx context.Context, req cart.UpdateProductAmount) error
}

// Notifier shows a short error message to the shopper
type Notifier interface {
	Error(ctx context.Context, message string)
}

type Controller struct {
	store    CartStore
	notifier Notifier
}

func NewController(store CartStore, notifier Notifier) *Controller {
	return &Controller{store: store, notifier: notifier}
}

func (c *Controller) Model() Model {
	return Build(c.store.Cart())
}

// Watch calls fn with a fresh Model after every accepted mutation
func (c *Controller) Watch(fn func(Model)) func() {
	return c.store.Subscribe(func(ct cart.Cart) {
		fn(Build(ct))
	})
}

func (c *Controller) Add(ctx context.Context, productID int) error {
	return c.report(ctx, c.store.AddProduct(ctx, productID))
}

// Increment asks for one more unit of a line
func (c *Controller) Increment(ctx context.Context, productID int) error {
	amount := 1
	if p, ok := c.store.Cart().Find(productID); ok {
		amount = p.Amount + 1
	}
	return c.report(ctx, c.store.UpdateProductAmount(ctx, cart.UpdateProductAmount{
		ProductID: productID,
		Amount:    amount,
	}))
}

// Decrement asks for one unit less. It does nothing for lines at amount 1, the
// same way the page disables the button.
func (c *Controller) Decrement(ctx context.Context, productID int) error {
	p, ok := c.store.Cart().Find(productID)
	if !ok {
		// let the store report the missing line
		return c.report(ctx, c.store.UpdateProductAmount(ctx, cart.UpdateProductAmount{
			ProductID: productID,
			Amount:    1,
		}))
	}
	if p.Amount <= 1 {
		return nil
	}
	return c.report(ctx, c.store.UpdateProductAmount(ctx, cart.UpdateProductAmount{
		ProductID: productID,
		Amount:    p.Amount - 1,
	}))
}

// SetAmount asks for an absolute quantity
func (c *Controller) SetAmount(ctx context.Context, productID, amount int) error {
	return c.report(ctx, c.store.UpdateProductAmount(ctx, cart.UpdateProductAmount{
		ProductID: productID,
		Amount:    amount,
	}))
}

func (c *Controller) Remove(ctx context.Context, productID int) error {
	return c.report(ctx, c.store.RemoveProduct(ctx, productID))
}

// Checkout is the "Finalizar pedido" button
func (c *Controller) Checkout(context.Context) error {
	return ErrCheckoutUnavailable
}

func (c *Controller) report(ctx context.Context, err error) error {
	if err != nil && c.notifier != nil {
		if msg := cart.MessageOf(err); msg != "" {
			c.notifier.Error(ctx, msg)
		}
	}
	return err
}
