// Package view derives the cart page from the cart state and turns user intents
// into cart operations.
package view

import (
	"github.com/example/rocketshoes-cart/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// Row is one rendered line of the cart table
type Row struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Image          string  `json:"image"`
	Price          float64 `json:"price"`
	Amount         int     `json:"amount"`
	FormattedPrice string  `json:"formattedPrice"`
	Subtotal       string  `json:"subtotal"`
	CanDecrement   bool    `json:"canDecrement"`
}

// Model is the whole cart page
type Model struct {
	Rows  []Row  `json:"products"`
	Total string `json:"total"`
	Items int    `json:"items"`
}

// Build computes the page for c. Sums are exact decimal arithmetic.
func Build(c cart.Cart) Model {
	rows := make([]Row, 0, len(c))
	total := decimal.Zero
	items := 0

	for _, p := range c {
		price := decimal.NewFromFloat(p.Price)
		subtotal := price.Mul(decimal.NewFromInt(int64(p.Amount)))
		total = total.Add(subtotal)
		items += p.Amount

		rows = append(rows, Row{
			ID:             p.ID,
			Title:          p.Title,
			Image:          p.Image,
			Price:          p.Price,
			Amount:         p.Amount,
			FormattedPrice: FormatBRL(price),
			Subtotal:       FormatBRL(subtotal),
			CanDecrement:   p.Amount > 1,
		})
	}

	return Model{Rows: rows, Total: FormatBRL(total), Items: items}
}
