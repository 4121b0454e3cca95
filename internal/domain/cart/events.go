package cart

import (
	"encoding/json"
	"time"
)

const (
	EventProductAdded         = "ProductAddedToCart"
	EventProductRemoved       = "ProductRemovedFromCart"
	EventProductAmountUpdated = "ProductAmountUpdated"
)

// Event is the envelope published for every accepted cart mutation
type Event struct {
	ID        string          `json:"id"`
	Namespace string          `json:"namespace"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type ProductAddedToCart struct {
	ProductID int       `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Amount    int       `json:"amount"`
	AddedAt   time.Time `json:"added_at"`
}

type ProductRemovedFromCart struct {
	ProductID int       `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type ProductAmountUpdated struct {
	ProductID int       `json:"product_id"`
	OldAmount int       `json:"old_amount"`
	NewAmount int       `json:"new_amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Type returns the event type, used as a message header by publishers
func (e Event) Type() string {
	return e.EventType
}
