// Package catalog serves the product catalog and stock levels the cart validates
// against.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/example/rocketshoes-cart/internal/domain/product"
)

//go:embed db.json
var defaultSeed []byte

// Seed is the document layout of db.json
type Seed struct {
	Products []product.Product `json:"products"`
	Stock    []product.Stock   `json:"stock"`
}

// Repository is a read-only, in-memory catalog
type Repository struct {
	order    []int
	products map[int]product.Product
	stock    map[int]product.Stock
}

func NewRepository(seed Seed) (*Repository, error) {
	r := &Repository{
		order:    make([]int, 0, len(seed.Products)),
		products: make(map[int]product.Product, len(seed.Products)),
		stock:    make(map[int]product.Stock, len(seed.Stock)),
	}

	for _, p := range seed.Products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	for _, s := range seed.Stock {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.stock[s.ID]; dup {
			return nil, fmt.Errorf("duplicate stock id %d", s.ID)
		}
		r.stock[s.ID] = s
	}
	return r, nil
}

// Load decodes a db.json document
func Load(rd io.Reader) (*Repository, error) {
	var seed Seed
	if err := json.NewDecoder(rd).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode catalog seed: %w", err)
	}
	return NewRepository(seed)
}

// LoadFile reads the seed at path. An empty path selects the built-in seed.
func LoadFile(path string) (*Repository, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog seed: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in RocketShoes catalog
func Default() (*Repository, error) {
	var seed Seed
	if err := json.Unmarshal(defaultSeed, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode built-in seed: %w", err)
	}
	return NewRepository(seed)
}

// Products lists the catalog in seed order
func (r *Repository) Products() []product.Product {
	out := make([]product.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out
}

func (r *Repository) Product(id int) (product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return product.Product{}, product.ErrProductNotFound
	}
	return p, nil
}

func (r *Repository) Stock(id int) (product.Stock, error) {
	s, ok := r.stock[id]
	if !ok {
		return product.Stock{}, product.ErrStockNotFound
	}
	return s, nil
}
