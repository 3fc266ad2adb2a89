package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrSlotEmpty is returned by Store.Load when no cart has been saved yet.
var ErrSlotEmpty = errors.New("cart slot is empty")

// Store durably holds the serialized ledger. It is owned exclusively by the
// ledger; no other component writes to it.
type Store interface {
	// Load returns the previously saved items, or ErrSlotEmpty when nothing
	// has been saved.
	Load(ctx context.Context) ([]LineItem, error)
	// Save replaces the stored items with the given sequence.
	Save(ctx context.Context, items []LineItem) error
}

// Totals are the derived aggregates of a ledger state.
type Totals struct {
	// TotalQuantity is the sum of all quantities.
	TotalQuantity int
	// ItemCount is the number of distinct entries.
	ItemCount int
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
}

// Ledger is the authoritative in-memory cart, shared by every page fragment
// of a session. All mutations are atomic state transitions followed by a
// persist-then-notify sequence. Construct one per process and inject it into
// each view; there is no package-level instance.
//
// Mutations serialize on an internal mutex. Persistence and notification run
// against an immutable snapshot outside the critical section, so subscriber
// callbacks may re-enter the ledger without deadlocking. Each mutation is
// stamped with a sequence number under the mutex; saves are serialized and a
// save whose snapshot has already been superseded is skipped, so the last
// persisted snapshot always reflects the newest completed mutation even when
// mutations race.
type Ledger struct {
	store    Store
	bus      *bus
	lg       *zap.Logger
	notifier Notifier
	seed     []LineItem

	mu    sync.Mutex
	items []LineItem
	seq   uint64

	// persistMu serializes Save calls and guards persistedSeq.
	persistMu    sync.Mutex
	persistedSeq uint64
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the ledger's logger. Defaults to a no-op logger.
func WithLogger(lg *zap.Logger) Option {
	return func(l *Ledger) { l.lg = lg }
}

// WithNotifier sets the user-notice presenter. Defaults to a LogNotifier.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithSeed sets the items Hydrate installs and persists when the store holds
// no saved cart. Without a seed, an empty slot yields an empty ledger.
func WithSeed(items []LineItem) Option {
	return func(l *Ledger) { l.seed = items }
}

// NewLedger creates an empty ledger backed by store. Call Hydrate before
// serving traffic.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		lg:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.notifier == nil {
		l.notifier = NewLogNotifier(l.lg)
	}
	l.bus = newBus(l.lg)
	return l
}

// Hydrate loads the saved cart from the store. A corrupt or unreadable slot
// is not fatal: the ledger starts empty and the failure is logged. When the
// slot is empty and a seed was configured, the seed is installed and
// persisted immediately.
func (l *Ledger) Hydrate(ctx context.Context) {
	items, err := l.store.Load(ctx)
	switch {
	case err == nil:
		l.mu.Lock()
		l.items = sanitize(items, l.lg)
		l.mu.Unlock()
	case errors.Is(err, ErrSlotEmpty):
		if len(l.seed) == 0 {
			return
		}
		l.mu.Lock()
		l.items = cloneItems(l.seed)
		snapshot := cloneItems(l.items)
		l.mu.Unlock()
		if err := l.store.Save(ctx, snapshot); err != nil {
			l.lg.Error("persist seeded cart", zap.Error(err))
		}
	default:
		l.lg.Warn("load saved cart failed, starting empty", zap.Error(err))
	}
}

// sanitize drops entries that violate the ledger invariants: invalid items
// are skipped, duplicate ids keep the first occurrence, quantities below one
// are clamped to one.
func sanitize(items []LineItem, lg *zap.Logger) []LineItem {
	out := make([]LineItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			lg.Warn("dropping invalid saved cart item", zap.String("id", it.ID), zap.Error(err))
			continue
		}
		if _, ok := seen[it.ID]; ok {
			lg.Warn("dropping duplicate saved cart item", zap.String("id", it.ID))
			continue
		}
		seen[it.ID] = struct{}{}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		out = append(out, it)
	}
	return out
}

// Subscribe registers cb for change events. Events are delivered in
// registration order after every mutation. The returned subscription must be
// cancelled when the owning view is torn down.
func (l *Ledger) Subscribe(cb Callback) *Subscription {
	return l.bus.subscribe(cb)
}

// Add puts item in the cart. When an entry with the same id already exists,
// only its quantity is incremented; the incoming item's other fields are
// ignored. Otherwise the item is appended with quantity one. Returns the
// resulting entry.
func (l *Ledger) Add(ctx context.Context, item LineItem) (LineItem, error) {
	if err := item.Validate(); err != nil {
		return LineItem{}, errors.Wrap(err, "add to cart")
	}

	l.mu.Lock()
	var result LineItem
	if i := l.index(item.ID); i >= 0 {
		l.items[i].Quantity++
		result = l.items[i].Clone()
	} else {
		it := item.Clone()
		it.Quantity = 1
		l.items = append(l.items, it)
		result = it.Clone()
	}
	snapshot := cloneItems(l.items)
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	l.finish(ctx, ActionAdd, &result, snapshot, seq)
	l.notifier.Show(result.Name+" added to cart", NoticeSuccess)
	return result, nil
}

// Remove deletes the entry matching id. An unknown id is not an error: the
// ledger still persists and notifies, with a nil affected item, and Remove
// returns nil. Callers must nil-check before using the result.
func (l *Ledger) Remove(ctx context.Context, id string) *LineItem {
	l.mu.Lock()
	var removed *LineItem
	if i := l.index(id); i >= 0 {
		it := l.items[i].Clone()
		removed = &it
		l.items = append(l.items[:i], l.items[i+1:]...)
	}
	snapshot := cloneItems(l.items)
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	l.finish(ctx, ActionRemove, removed, snapshot, seq)
	if removed != nil {
		l.notifier.Show(removed.Name+" removed from cart", NoticeInfo)
	}
	return removed
}

// SetQuantity updates the quantity of the entry matching id, clamping
// requests below one to one. An unknown id is a no-op that still persists
// and notifies; SetQuantity then returns nil.
func (l *Ledger) SetQuantity(ctx context.Context, id string, quantity int) *LineItem {
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	var updated *LineItem
	if i := l.index(id); i >= 0 {
		l.items[i].Quantity = quantity
		it := l.items[i].Clone()
		updated = &it
	}
	snapshot := cloneItems(l.items)
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	l.finish(ctx, ActionUpdate, updated, snapshot, seq)
	if updated != nil {
		l.notifier.Show(updated.Name+" quantity updated", NoticeInfo)
	}
	return updated
}

// Clear empties the ledger unconditionally.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	l.items = nil
	snapshot := []LineItem{}
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	l.finish(ctx, ActionClear, nil, snapshot, seq)
	l.notifier.Show("All items removed from cart", NoticeWarning)
}

// finish runs the persist-then-notify sequence shared by every mutation.
// A failed save is logged and swallowed; the in-memory ledger stays
// authoritative for the rest of the session. A snapshot that a newer
// mutation has already persisted past is not written: a slow earlier save
// must not clobber the store with stale state.
func (l *Ledger) finish(ctx context.Context, action Action, item *LineItem, snapshot []LineItem, seq uint64) {
	l.persistMu.Lock()
	if seq > l.persistedSeq {
		if err := l.store.Save(ctx, snapshot); err != nil {
			l.lg.Error("persist cart",
				zap.String("action", string(action)),
				zap.Error(err),
			)
		}
		l.persistedSeq = seq
	}
	l.persistMu.Unlock()

	l.bus.publish(Event{Action: action, Item: item, Items: snapshot})
}

// index returns the position of the entry with the given id, or -1.
// Callers must hold l.mu.
func (l *Ledger) index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Items returns a fresh snapshot of the ledger, insertion-ordered. Mutating
// the returned slice does not affect the ledger.
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneItems(l.items)
}

// TotalQuantity is the sum of all entry quantities.
func (l *Ledger) TotalQuantity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for i := range l.items {
		total += l.items[i].Quantity
	}
	return total
}

// ItemCount is the number of distinct entries.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Subtotal is Σ price × quantity over all entries.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return subtotalOf(l.items)
}

// Discount is Σ (originalPrice − price) × quantity, where entries without an
// original price contribute zero.
func (l *Ledger) Discount() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return discountOf(l.items)
}

// Totals returns all derived aggregates in one consistent view.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := Totals{
		ItemCount: len(l.items),
		Subtotal:  subtotalOf(l.items),
		Discount:  discountOf(l.items),
	}
	for i := range l.items {
		t.TotalQuantity += l.items[i].Quantity
	}
	return t
}

// subtotalOf computes Σ price × quantity for a snapshot. Shared with the
// view projection so every display surface derives totals the same way.
func subtotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		qty := decimal.NewFromInt(int64(items[i].Quantity))
		total = total.Add(items[i].Price.Mul(qty))
	}
	return total
}

// discountOf computes Σ (originalPrice − price) × quantity for a snapshot.
func discountOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		orig := items[i].effectiveOriginalPrice()
		qty := decimal.NewFromInt(int64(items[i].Quantity))
		total = total.Add(orig.Sub(items[i].Price).Mul(qty))
	}
	return total
}

// SubtotalOf exposes the shared subtotal rule for snapshot holders.
func SubtotalOf(items []LineItem) decimal.Decimal { return subtotalOf(items) }

// DiscountOf exposes the shared discount rule for snapshot holders.
func DiscountOf(items []LineItem) decimal.Decimal { return discountOf(items) }
