package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/rocketshoes-cart/internal/api/middleware"
	"github.com/example/rocketshoes-cart/internal/api/web"
	"github.com/example/rocketshoes-cart/internal/domain/cart"
	"github.com/example/rocketshoes-cart/internal/domain/product"
	"github.com/example/rocketshoes-cart/internal/notification"
	"github.com/example/rocketshoes-cart/internal/view"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	store    view.CartStore
	toasts   notification.Sink
	validate *validator.Validate
	log      logrus.FieldLogger
}

func NewHandlers(store view.CartStore, toasts notification.Sink, logger logrus.FieldLogger) *Handlers {
	return &Handlers{
		store:    store,
		toasts:   toasts,
		validate: validator.New(),
		log:      logger.WithField("component", "api"),
	}
}

// SetAmountRequest is the body of PUT /cart/products/{id}
type SetAmountRequest struct {
	Amount *int `json:"amount" validate:"required"`
}

// ErrorResponse carries the shopper-facing message of a rejected operation
type ErrorResponse struct {
	Error  string               `json:"error"`
	Kind   string               `json:"kind,omitempty"`
	Toasts []notification.Toast `json:"toasts,omitempty"`
}

type intent func(c *view.Controller, r *http.Request, id int) error

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	ctrl := view.NewController(h.store, h.toasts)
	web.RespondJSON(w, middleware.Logger(h.log, r), http.StatusOK, ctrl.Model())
}

func (h *Handlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(c *view.Controller, r *http.Request, id int) error {
		return c.Add(r.Context(), id)
	})
}

func (h *Handlers) IncrementProduct(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(c *view.Controller, r *http.Request, id int) error {
		return c.Increment(r.Context(), id)
	})
}

func (h *Handlers) DecrementProduct(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(c *view.Controller, r *http.Request, id int) error {
		return c.Decrement(r.Context(), id)
	})
}

func (h *Handlers) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(c *view.Controller, r *http.Request, id int) error {
		return c.Remove(r.Context(), id)
	})
}

func (h *Handlers) SetProductAmount(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(h.log, r)

	var req SetAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		web.RespondError(w, log, http.StatusBadRequest, "amount is required")
		return
	}

	h.run(w, r, func(c *view.Controller, r *http.Request, id int) error {
		return c.SetAmount(r.Context(), id, *req.Amount)
	})
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	ctrl := view.NewController(h.store, h.toasts)
	err := ctrl.Checkout(r.Context())
	web.RespondError(w, middleware.Logger(h.log, r), http.StatusNotImplemented, err.Error())
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
}

// run executes one intent with a controller collecting the toasts of this request
func (h *Handlers) run(w http.ResponseWriter, r *http.Request, fn intent) {
	log := middleware.Logger(h.log, r)
	id, ok := web.ParseID(w, r, log)
	if !ok {
		return
	}

	recorder := notification.NewRecorder(h.toasts)
	ctrl := view.NewController(h.store, recorder)

	if err := fn(ctrl, r, id); err != nil {
		status := statusFor(err)
		log.WithError(err).WithField("status", status).Debug("Cart operation rejected")
		web.RespondJSON(w, log, status, ErrorResponse{
			Error:  messageFor(err),
			Kind:   cart.KindOf(err).String(),
			Toasts: recorder.Toasts(),
		})
		return
	}
	web.RespondJSON(w, log, http.StatusOK, ctrl.Model())
}

func statusFor(err error) int {
	switch {
	case cart.KindOf(err) == cart.KindOutOfStock:
		return http.StatusConflict
	case errors.Is(err, cart.ErrProductNotInCart), errors.Is(err, product.ErrProductNotFound):
		return http.StatusNotFound
	case cart.KindOf(err) == cart.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func messageFor(err error) string {
	if msg := cart.MessageOf(err); msg != "" {
		return msg
	}
	return http.StatusText(http.StatusInternalServerError)
}
