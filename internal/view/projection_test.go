package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
)

// --- Mock implementations ---

type memStore struct {
	mu    sync.Mutex
	items []cart.LineItem
	saved bool
}

func (m *memStore) Load(_ context.Context) ([]cart.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, cart.ErrSlotEmpty
	}
	return m.items, nil
}

func (m *memStore) Save(_ context.Context, items []cart.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.saved = true
	return nil
}

type fakeRenderer struct {
	mu    sync.Mutex
	texts map[string]string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{texts: make(map[string]string)}
}

func (r *fakeRenderer) SetText(target, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts[target] = text
}

func (r *fakeRenderer) get(target string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.texts[target]
}

type fakeNotifier struct {
	mu    sync.Mutex
	kinds []cart.NoticeKind
}

func (n *fakeNotifier) Show(_ string, kind cart.NoticeKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *fakeNotifier) last() (cart.NoticeKind, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.kinds) == 0 {
		return "", false
	}
	return n.kinds[len(n.kinds)-1], true
}

// --- Helpers ---

func newLedger(t *testing.T, items ...cart.LineItem) *cart.Ledger {
	t.Helper()
	l := cart.NewLedger(&memStore{})
	l.Hydrate(context.Background())
	for _, it := range items {
		_, err := l.Add(context.Background(), it)
		require.NoError(t, err)
	}
	return l
}

func item(id string, price int64) cart.LineItem {
	return cart.LineItem{ID: id, Name: id, Price: decimal.NewFromInt(price)}
}

// --- Tests ---

func TestProjection_SeedsFromSnapshot(t *testing.T) {
	ledger := newLedger(t, item("a", 899000))
	r := newFakeRenderer()

	p := New(ledger, r)
	defer p.Close()

	assert.Equal(t, 1, p.ItemCount())
	assert.Equal(t, "1", r.get(TargetItemCount))
	assert.Equal(t, "899.000 ₫", r.get(TargetSubtotal))
	assert.Equal(t, "899.000 ₫", r.get(TargetTotal))
	assert.Equal(t, "Checkout (1)", r.get(TargetCheckoutLabel))
	assert.Equal(t, "1 items • Total: 899.000 ₫", r.get(TargetSummary))
}

func TestProjection_RerendersOnMutation(t *testing.T) {
	ledger := newLedger(t)
	r := newFakeRenderer()
	p := New(ledger, r)
	defer p.Close()

	_, err := ledger.Add(context.Background(), item("a", 1000))
	require.NoError(t, err)
	_, err = ledger.Add(context.Background(), item("b", 500))
	require.NoError(t, err)

	assert.Equal(t, 2, p.ItemCount())
	assert.Equal(t, "2", r.get(TargetItemCount))
	assert.Equal(t, "1.500 ₫", r.get(TargetTotal))

	ledger.Clear(context.Background())
	assert.Equal(t, "0", r.get(TargetItemCount))
	assert.Equal(t, "Checkout (0)", r.get(TargetCheckoutLabel))
}

func TestProjection_DerivedFields(t *testing.T) {
	discounted := cart.LineItem{
		ID:            "deal",
		Name:          "Deal",
		Price:         decimal.NewFromInt(80),
		OriginalPrice: decimal.NewFromInt(100),
	}
	ledger := newLedger(t, discounted)
	ledger.SetQuantity(context.Background(), "deal", 2)

	p := New(ledger, newFakeRenderer())
	defer p.Close()

	assert.True(t, decimal.NewFromInt(160).Equal(p.Subtotal()))
	assert.True(t, decimal.NewFromInt(40).Equal(p.Discount()))
	assert.True(t, p.Total().Equal(p.Subtotal()))
}

func TestProjection_RemoveItemNotifiesOnlyWhenFound(t *testing.T) {
	ledger := newLedger(t, item("a", 100))
	n := &fakeNotifier{}
	p := New(ledger, newFakeRenderer(), WithNotifier(n))
	defer p.Close()

	before := len(n.kinds)
	p.RemoveItem(context.Background(), "missing")
	assert.Len(t, n.kinds, before, "absent id must not produce a projection notice")

	p.RemoveItem(context.Background(), "a")
	kind, ok := n.last()
	require.True(t, ok)
	assert.Equal(t, cart.NoticeSuccess, kind)
	assert.Zero(t, p.ItemCount())
}

func TestProjection_CheckoutEmptyCart(t *testing.T) {
	ledger := newLedger(t)
	n := &fakeNotifier{}
	p := New(ledger, newFakeRenderer(), WithNotifier(n), WithCheckoutDelay(0))
	defer p.Close()

	err := p.ProceedToCheckout(context.Background())
	require.ErrorIs(t, err, ErrCartEmpty)

	kind, ok := n.last()
	require.True(t, ok)
	assert.Equal(t, cart.NoticeWarning, kind)
	assert.False(t, p.IsProcessing())
}

func TestProjection_CheckoutCompletes(t *testing.T) {
	ledger := newLedger(t, item("a", 100))
	var navigated bool
	p := New(ledger, newFakeRenderer(),
		WithCheckoutDelay(0),
		WithNavigate(func() { navigated = true }),
	)
	defer p.Close()

	require.NoError(t, p.ProceedToCheckout(context.Background()))
	assert.True(t, navigated)
	assert.False(t, p.IsProcessing())
}

func TestProjection_CheckoutCancelled(t *testing.T) {
	ledger := newLedger(t, item("a", 100))
	p := New(ledger, newFakeRenderer(), WithCheckoutDelay(time.Minute))
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.ProceedToCheckout(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, p.IsProcessing())
}

func TestProjection_CartChangesDuringCheckout(t *testing.T) {
	ledger := newLedger(t, item("a", 100), item("b", 200))
	r := newFakeRenderer()
	p := New(ledger, r, WithCheckoutDelay(50*time.Millisecond))
	defer p.Close()

	done := make(chan error, 1)
	go func() { done <- p.ProceedToCheckout(context.Background()) }()

	// Wait until the processing flag is up, then mutate the cart underneath.
	require.Eventually(t, p.IsProcessing, time.Second, time.Millisecond)
	ledger.Remove(context.Background(), "a")
	assert.Equal(t, 1, p.ItemCount(), "projection must track mutations mid-checkout")

	require.NoError(t, <-done)
	assert.Equal(t, "1", r.get(TargetItemCount))
}

func TestProjection_CloseStopsEvents(t *testing.T) {
	ledger := newLedger(t, item("a", 100))
	r := newFakeRenderer()
	p := New(ledger, r)

	p.Close()
	p.Close() // idempotent

	ledger.Clear(context.Background())

	// The projection keeps its last pre-close state.
	assert.Equal(t, 1, p.ItemCount())
	assert.Equal(t, "1", r.get(TargetItemCount))
}
