package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
	"github.com/xenking/mmo-storefront/internal/domain/product"
)

// listProducts returns the catalog.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "list products")
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for i := range products {
			encodeProduct(e, products[i])
		}
		e.ArrEnd()
	})
}

// addProduct is the quick-add path: resolve a catalog product by id and put
// its line item in the cart.
func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("get product", zap.String("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "get product")
		return
	}

	result, err := h.ledger.Add(r.Context(), p.LineItem())
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, r, http.StatusCreated, func(e *jx.Encoder) {
		cart.EncodeItem(e, result)
	})
}
