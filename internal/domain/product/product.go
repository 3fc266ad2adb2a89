// Package product holds the minimal catalog backing the add-to-cart entry
// point: the fields a product detail page feeds into the cart ledger.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    decimal.Decimal
	// OriginalPrice is the pre-discount unit price; zero when the product is
	// not discounted.
	OriginalPrice decimal.Decimal
	Image         string
	Icon          string
}

// LineItem converts the product into the entry the cart ledger stores.
// Quantity is left to the ledger, which always starts new entries at one.
func (p Product) LineItem() cart.LineItem {
	return cart.LineItem{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Icon:          p.Icon,
	}
}

// Repository defines catalog persistence operations.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Upsert(ctx context.Context, p Product) error
}
