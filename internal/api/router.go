package api

import (
	"net/http"

	"github.com/example/rocketshoes-cart/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func NewRouter(h *Handlers, logger logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/healthz", h.HealthCheck)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/checkout", h.Checkout)

		r.Route("/products/{id}", func(r chi.Router) {
			r.Post("/", h.AddProduct)
			r.Put("/", h.SetProductAmount)
			r.Delete("/", h.RemoveProduct)
			r.Post("/increment", h.IncrementProduct)
			r.Post("/decrement", h.DecrementProduct)
		})
	})

	return r
}
