package cart

import (
	"sync"

	"go.uber.org/zap"
)

// Action identifies the ledger mutation that produced an event.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionUpdate Action = "update"
	ActionClear  Action = "clear"
)

// Event describes one completed ledger mutation.
type Event struct {
	Action Action
	// Item is the affected entry, or nil when the action had no matching
	// entry (remove/set-quantity on an unknown id, clear).
	Item *LineItem
	// Items is a snapshot of the ledger after the mutation. Each subscriber
	// receives its own copy.
	Items []LineItem
}

// Callback receives ledger change events.
type Callback func(Event)

// Subscription is a registered callback's cancellation handle. Cancel is
// idempotent; the owning view must call it on teardown so a destroyed view
// never receives further events.
type Subscription struct {
	id   uint64
	bus  *bus
	once sync.Once
}

// Cancel deregisters the subscription's callback.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.bus.remove(s.id)
	})
}

// subscriber pairs a callback with its registration id.
type subscriber struct {
	id uint64
	cb Callback
}

// bus is the ledger's change-notification fan-out. Delivery follows
// registration order. A callback that panics is logged and isolated; it
// cannot block delivery to later subscribers or corrupt ledger state.
type bus struct {
	lg *zap.Logger

	mu     sync.Mutex
	nextID uint64
	subs   []subscriber
}

func newBus(lg *zap.Logger) *bus {
	return &bus{lg: lg}
}

// subscribe registers cb and returns its cancellation handle.
func (b *bus) subscribe(cb Callback) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, cb: cb})
	return &Subscription{id: id, bus: b}
}

// remove drops the subscriber with the given id, keeping registration order
// for the rest.
func (b *bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// publish delivers evt to every live subscriber. The subscriber list is
// snapshotted up front and callbacks run without the bus lock held, so a
// callback may freely subscribe, cancel, or mutate the ledger.
func (b *bus) publish(evt Event) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, evt)
	}
}

func (b *bus) deliver(s subscriber, evt Event) {
	defer func() {
		if rec := recover(); rec != nil {
			b.lg.Error("cart subscriber panicked",
				zap.Uint64("subscription_id", s.id),
				zap.Any("panic", rec),
			)
		}
	}()

	// Every subscriber gets an independent copy of the snapshot.
	own := evt
	own.Items = cloneItems(evt.Items)
	if evt.Item != nil {
		it := evt.Item.Clone()
		own.Item = &it
	}
	s.cb(own)
}
