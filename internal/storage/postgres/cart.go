package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
)

var _ cart.Store = (*CartStore)(nil)

// CartStore implements cart.Store as one row per slot key in the cart_slots
// table. The serialized ledger lives in a JSONB column using the same slot
// layout as the file store.
type CartStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewCartStore returns a CartStore bound to the given slot key.
func NewCartStore(pool *pgxpool.Pool, key string) *CartStore {
	return &CartStore{pool: pool, key: key}
}

// Load reads and decodes the slot row. A missing row yields cart.ErrSlotEmpty.
func (s *CartStore) Load(ctx context.Context) ([]cart.LineItem, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT items FROM cart_slots WHERE key = $1`, s.key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrSlotEmpty
		}
		return nil, errors.Wrapf(err, "load cart slot %q", s.key)
	}

	items, err := cart.DecodeItems(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode cart slot %q", s.key)
	}
	return items, nil
}

// Save upserts the slot row; last write wins.
func (s *CartStore) Save(ctx context.Context, items []cart.LineItem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cart_slots (key, items, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET items = EXCLUDED.items, updated_at = now()`,
		s.key, cart.EncodeItems(items),
	)
	if err != nil {
		return errors.Wrapf(err, "save cart slot %q", s.key)
	}
	return nil
}
