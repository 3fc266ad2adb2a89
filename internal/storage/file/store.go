// Package file persists the cart in a single JSON slot file, the server-side
// analogue of a browser storage slot.
package file

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
)

var _ cart.Store = (*Store)(nil)

// Store reads and writes the serialized ledger at a fixed path. Writes go
// through a temp file plus rename, so a crash mid-write leaves the previous
// slot intact (last complete write wins).
type Store struct {
	path string
}

// New returns a Store backed by the file at path. The file and its directory
// are created on first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads and decodes the slot. A missing file yields cart.ErrSlotEmpty;
// a corrupt one returns the decode error, which the ledger treats as "no
// saved cart".
func (s *Store) Load(_ context.Context) ([]cart.LineItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cart.ErrSlotEmpty
		}
		return nil, errors.Wrap(err, "read cart slot")
	}

	items, err := cart.DecodeItems(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode cart slot")
	}
	return items, nil
}

// Save atomically replaces the slot with the given items.
func (s *Store) Save(_ context.Context, items []cart.LineItem) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create slot directory")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, cart.EncodeItems(items), 0o644); err != nil {
		return errors.Wrap(err, "write cart slot")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replace cart slot")
	}
	return nil
}
