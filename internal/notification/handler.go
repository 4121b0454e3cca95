package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/example/rocketshoes-cart/internal/domain/cart"
	"github.com/example/rocketshoes-cart/internal/view"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Handler turns cart events from the stream into one readable line each
type Handler struct {
	mu  sync.Mutex
	out io.Writer
	log logrus.FieldLogger
}

func NewHandler(out io.Writer, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{out: out, log: logger.WithField("component", "cartwatch")}
}

// HandleEvent processes one message from Kafka
func (h *Handler) HandleEvent(_ context.Context, msg kafka.Message) error {
	var event cart.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.log.WithError(err).Error("Failed to unmarshal event")
		return err
	}

	line, err := describe(event)
	if err != nil {
		h.log.WithError(err).WithField("event_type", event.EventType).Error("Failed to unmarshal event data")
		return err
	}
	if line == "" {
		h.log.WithField("event_type", event.EventType).Debug("Skipping unknown event")
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = fmt.Fprintf(h.out, "%s [%s] %s\n", event.Timestamp.Format("15:04:05"), event.Namespace, line)
	return err
}

func describe(event cart.Event) (string, error) {
	switch event.EventType {
	case cart.EventProductAdded:
		var e cart.ProductAddedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return "", err
		}
		return fmt.Sprintf("added product %d %q at %s, now %d", e.ProductID, e.Title, view.FormatPrice(e.Price), e.Amount), nil

	case cart.EventProductRemoved:
		var e cart.ProductRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return "", err
		}
		return fmt.Sprintf("removed product %d", e.ProductID), nil

	case cart.EventProductAmountUpdated:
		var e cart.ProductAmountUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return "", err
		}
		return fmt.Sprintf("product %d amount %d -> %d", e.ProductID, e.OldAmount, e.NewAmount), nil
	}
	return "", nil
}
