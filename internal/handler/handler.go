// Package handler exposes the cart ledger and product catalog over HTTP.
// Handlers stay thin: they decode, delegate to the domain, and map results
// or domain errors onto responses.
package handler

import (
	"net/http"
	"time"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
	"github.com/xenking/mmo-storefront/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// CheckoutDelay is the simulated payment-processing duration. Zero means
	// checkout completes immediately.
	CheckoutDelay time.Duration
}

// Handler serves the cart API. Every page fragment of a session talks to
// the same injected ledger, so mutations made through one endpoint are
// visible to all others and to the change feed.
type Handler struct {
	ledger        *cart.Ledger
	products      product.Repository
	checkoutDelay time.Duration
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(cfg Config, ledger *cart.Ledger, products product.Repository) *Handler {
	return &Handler{
		ledger:        ledger,
		products:      products,
		checkoutDelay: cfg.CheckoutDelay,
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("POST /api/cart/items", h.addItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.setQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeItem)
	mux.HandleFunc("POST /api/cart/checkout", h.checkout)
	mux.HandleFunc("GET /api/cart/events", h.events)
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products/{id}/cart", h.addProduct)
	return mux
}
