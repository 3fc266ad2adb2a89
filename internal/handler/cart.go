package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
)

// getCart returns the current snapshot with derived totals.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	items := h.ledger.Items()
	totals := h.ledger.Totals()
	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		encodeCartView(e, items, totals)
	})
}

// addItem adds a full line item supplied by the client (the product detail
// page already carries every field). Responds with the resulting entry: a
// repeated id comes back with its incremented quantity.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "read request body")
		return
	}

	item, err := cart.DecodeItem(jx.DecodeBytes(body))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed line item")
		return
	}

	result, err := h.ledger.Add(r.Context(), item)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, r, http.StatusCreated, func(e *jx.Encoder) {
		cart.EncodeItem(e, result)
	})
}

// setQuantity updates one entry's quantity. Requests below one are clamped
// to one by the ledger; an unknown id maps to 404.
func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "read request body")
		return
	}

	quantity, ok := decodeQuantity(body)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "malformed quantity")
		return
	}

	updated := h.ledger.SetQuantity(r.Context(), r.PathValue("id"), quantity)
	if updated == nil {
		writeError(w, r, http.StatusNotFound, "item not in cart")
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		cart.EncodeItem(e, *updated)
	})
}

// decodeQuantity parses {"quantity": n}.
func decodeQuantity(body []byte) (int, bool) {
	var (
		quantity int
		found    bool
	)
	d := jx.DecodeBytes(body)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "quantity" {
			return d.Skip()
		}
		q, err := d.Int()
		if err != nil {
			return err
		}
		quantity, found = q, true
		return nil
	})
	return quantity, err == nil && found
}

// removeItem deletes one entry; an unknown id maps to 404.
func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	removed := h.ledger.Remove(r.Context(), r.PathValue("id"))
	if removed == nil {
		writeError(w, r, http.StatusNotFound, "item not in cart")
		return
	}

	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		cart.EncodeItem(e, *removed)
	})
}

// clearCart empties the ledger.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.ledger.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// checkout guards against an empty cart, holds through the simulated
// processing delay, and returns an order reference. The cart is not cleared
// here; the storefront clears it after the redirect completes.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	if h.ledger.ItemCount() == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "cart is empty")
		return
	}

	if h.checkoutDelay > 0 {
		timer := time.NewTimer(h.checkoutDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-r.Context().Done():
			return
		}
	}

	totals := h.ledger.Totals()
	writeJSON(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("orderRef")
		e.Str(uuid.New().String())
		e.FieldStart("status")
		e.Str("processing")
		e.FieldStart("total")
		e.Raw([]byte(totals.Subtotal.String()))
		e.FieldStart("formattedTotal")
		e.Str(cart.FormatPrice(totals.Subtotal))
		e.ObjEnd()
	})
}
