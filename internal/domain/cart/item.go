package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Validation errors returned by the ledger boundary.
var (
	ErrMissingID     = errors.New("line item id required")
	ErrNegativePrice = errors.New("line item price must not be negative")
)

// LineItem is one product entry in the cart. Items are unique by ID within a
// ledger; adding an existing ID increments the stored entry's quantity.
type LineItem struct {
	ID       string
	Name     string
	Category string
	// Price is the current unit price.
	Price decimal.Decimal
	// OriginalPrice is the pre-discount unit price. A zero value means the
	// item is not discounted and Price is used in its place.
	OriginalPrice decimal.Decimal
	Quantity      int
	Image         string
	Icon          string

	// Extra carries persisted JSON fields the ledger does not interpret.
	// They survive save/load round-trips unchanged.
	Extra map[string]jx.Raw
}

// Validate checks the fields the ledger relies on. Display metadata is not
// validated; the ledger stores it opaquely.
func (it LineItem) Validate() error {
	if it.ID == "" {
		return ErrMissingID
	}
	if it.Price.IsNegative() {
		return ErrNegativePrice
	}
	if it.OriginalPrice.IsNegative() {
		return errors.Wrap(ErrNegativePrice, "original price")
	}
	return nil
}

// effectiveOriginalPrice returns OriginalPrice, falling back to Price when
// the item carries no pre-discount price. The fallback makes the item's
// discount contribution zero.
func (it LineItem) effectiveOriginalPrice() decimal.Decimal {
	if it.OriginalPrice.IsZero() {
		return it.Price
	}
	return it.OriginalPrice
}

// Clone returns a copy of the item whose Extra map is independent of the
// receiver's.
func (it LineItem) Clone() LineItem {
	c := it
	if it.Extra != nil {
		c.Extra = make(map[string]jx.Raw, len(it.Extra))
		for k, v := range it.Extra {
			c.Extra[k] = append(jx.Raw(nil), v...)
		}
	}
	return c
}

// cloneItems deep-copies a line item sequence. Every snapshot handed out of
// the ledger goes through here so callers can mutate their copy freely.
func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
