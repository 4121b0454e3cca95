package cart

import (
	"github.com/example/rocketshoes-cart/internal/domain/product"
)

const DefaultNamespace = "@RocketShoes"

// StorageKey returns the persistent store key holding the cart of a namespace
func StorageKey(namespace string) string {
	return namespace + ":cart"
}

// Product is one line item of the cart. Title, image and price are copied from the
// catalog when the line is created and never change afterwards.
type Product struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`
}

func newLineItem(p *product.Product, productID int) Product {
	return Product{
		ID:     productID,
		Title:  p.Title,
		Price:  p.Price,
		Image:  p.Image,
		Amount: 1,
	}
}

// Cart is the ordered list of line items
type Cart []Product

// Find returns the line item for productID
func (c Cart) Find(productID int) (Product, bool) {
	if i := c.index(productID); i >= 0 {
		return c[i], true
	}
	return Product{}, false
}

// Len returns the number of distinct products
func (c Cart) Len() int {
	return len(c)
}

func (c Cart) index(productID int) int {
	for i, p := range c {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) without(productID int) Cart {
	out := make(Cart, 0, len(c))
	for _, p := range c {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}

// valid reports whether a decoded cart honours the line item invariants
func (c Cart) valid() bool {
	seen := make(map[int]struct{}, len(c))
	for _, p := range c {
		if p.Amount < 1 {
			return false
		}
		if _, dup := seen[p.ID]; dup {
			return false
		}
		seen[p.ID] = struct{}{}
	}
	return true
}

// UpdateProductAmount asks for an absolute quantity of a product already in the cart
type UpdateProductAmount struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}
