// Package memory provides an in-memory product catalog for deployments
// without a database (the storefront demo mode).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xenking/mmo-storefront/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository over a map.
type ProductRepository struct {
	mu   sync.RWMutex
	byID map[string]product.Product
}

// NewProductRepository returns a repository pre-populated with the given
// products.
func NewProductRepository(products []product.Product) *ProductRepository {
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &ProductRepository{byID: byID}
}

// List returns all products ordered by ID.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]product.Product, 0, len(r.byID))
	for _, p := range r.byID {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// GetByID returns a single product, or product.ErrNotFound.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// Upsert inserts or replaces a catalog entry.
func (r *ProductRepository) Upsert(_ context.Context, p product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}
