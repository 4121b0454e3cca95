package catalog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/example/rocketshoes-cart/internal/api/middleware"
	"github.com/example/rocketshoes-cart/internal/api/web"
	"github.com/example/rocketshoes-cart/internal/domain/product"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	repo *Repository
	log  logrus.FieldLogger
}

func NewHandler(repo *Repository, logger logrus.FieldLogger) *Handler {
	return &Handler{repo: repo, log: logger.WithField("component", "catalog")}
}

// Routes builds the catalog router with request logging
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(h.log))
	r.Use(middleware.Recoverer(h.log))
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/stock/{id}", h.GetStock)
	r.Get("/healthz", h.HealthCheck)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, middleware.Logger(h.log, r), http.StatusOK, h.repo.Products())
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(h.log, r)
	id, ok := web.ParseID(w, r, log)
	if !ok {
		return
	}

	p, err := h.repo.Product(id)
	if errors.Is(err, product.ErrProductNotFound) {
		web.RespondError(w, log, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	web.RespondJSON(w, log, http.StatusOK, p)
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(h.log, r)
	id, ok := web.ParseID(w, r, log)
	if !ok {
		return
	}

	s, err := h.repo.Stock(id)
	if errors.Is(err, product.ErrStockNotFound) {
		web.RespondError(w, log, http.StatusNotFound, fmt.Sprintf("Stock for product %d not found", id))
		return
	}
	web.RespondJSON(w, log, http.StatusOK, s)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.log, http.StatusOK, map[string]string{"status": "ok"})
}
