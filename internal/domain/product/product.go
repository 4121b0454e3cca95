package product

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStockNotFound   = errors.New("stock not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidTitle    = errors.New("title is required")
	ErrInvalidStock    = errors.New("stock amount must not be negative")
)

// Product is the catalog view of a sellable item.
type Product struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Validate checks the catalog invariants of a product.
func (p Product) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("product %d: %w", p.ID, ErrInvalidTitle)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %d: %w", p.ID, ErrInvalidPrice)
	}
	return nil
}

// Stock is a point-in-time reading of how many units of a product are available.
type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// Validate checks that the stock amount is usable.
func (s Stock) Validate() error {
	if s.Amount < 0 {
		return fmt.Errorf("stock %d: %w", s.ID, ErrInvalidStock)
	}
	return nil
}

// Allows reports whether the snapshot covers the requested quantity.
func (s Stock) Allows(amount int) bool {
	return amount <= s.Amount
}
