package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
	"github.com/xenking/mmo-storefront/internal/domain/product"
)

// maxBodySize caps request bodies; a cart item is tiny.
const maxBodySize = 1 << 20

// writeJSON encodes a body built by fn and writes it with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	fn(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("write response", zap.Error(err))
	}
}

// writeError writes the API error envelope {code, message}.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// encodeCartView writes the cart snapshot plus derived totals, including the
// formatted strings every display surface shares.
func encodeCartView(e *jx.Encoder, items []cart.LineItem, totals cart.Totals) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for i := range items {
		cart.EncodeItem(e, items[i])
	}
	e.ArrEnd()
	e.FieldStart("totalQuantity")
	e.Int(totals.TotalQuantity)
	e.FieldStart("itemCount")
	e.Int(totals.ItemCount)
	e.FieldStart("subtotal")
	e.Raw([]byte(totals.Subtotal.String()))
	e.FieldStart("discount")
	e.Raw([]byte(totals.Discount.String()))
	e.FieldStart("total")
	e.Raw([]byte(totals.Subtotal.String()))
	e.FieldStart("formattedSubtotal")
	e.Str(cart.FormatPrice(totals.Subtotal))
	e.FieldStart("formattedDiscount")
	e.Str(cart.FormatPrice(totals.Discount))
	e.FieldStart("formattedTotal")
	e.Str(cart.FormatPrice(totals.Subtotal))
	e.ObjEnd()
}

// encodeProduct writes a catalog entry.
func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("category")
	e.Str(p.Category)
	e.FieldStart("price")
	e.Raw([]byte(p.Price.String()))
	if !p.OriginalPrice.IsZero() {
		e.FieldStart("originalPrice")
		e.Raw([]byte(p.OriginalPrice.String()))
	}
	if p.Image != "" {
		e.FieldStart("image")
		e.Str(p.Image)
	}
	if p.Icon != "" {
		e.FieldStart("icon")
		e.Str(p.Icon)
	}
	e.FieldStart("formattedPrice")
	e.Str(cart.FormatPrice(p.Price))
	e.ObjEnd()
}
