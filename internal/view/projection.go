// Package view mirrors the cart ledger into page-local display state. A
// Projection owns no cart data: it re-derives everything from ledger
// snapshots and pushes formatted text into named display targets.
package view

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/mmo-storefront/internal/domain/cart"
)

// Checkout guard errors.
var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// Renderer receives formatted display strings for named targets. The
// projection writes into targets it does not own; a renderer may ignore
// targets its page lacks.
type Renderer interface {
	SetText(target, text string)
}

// Display targets written by every cart projection.
const (
	TargetSummary       = "cart-info"
	TargetItemCount     = "selected-count"
	TargetSubtotal      = "subtotal"
	TargetTotal         = "total"
	TargetCheckoutLabel = "checkout-button"
)

// Projection is one page's live mirror of the cart ledger. Construct with
// New, tear down with Close so the subscription is released before the
// page's display targets go away.
type Projection struct {
	ledger   *cart.Ledger
	renderer Renderer
	notifier cart.Notifier
	lg       *zap.Logger
	delay    time.Duration
	navigate func()

	sub        *cart.Subscription
	processing atomic.Bool

	mu    sync.Mutex
	items []cart.LineItem
}

// Option configures a Projection.
type Option func(*Projection)

// WithLogger sets the projection's logger.
func WithLogger(lg *zap.Logger) Option {
	return func(p *Projection) { p.lg = lg }
}

// WithNotifier sets the user-notice presenter.
func WithNotifier(n cart.Notifier) Option {
	return func(p *Projection) { p.notifier = n }
}

// WithCheckoutDelay sets the simulated checkout processing delay. Zero makes
// checkout complete immediately, which tests rely on.
func WithCheckoutDelay(d time.Duration) Option {
	return func(p *Projection) { p.delay = d }
}

// WithNavigate sets the redirect invoked after a successful checkout.
func WithNavigate(fn func()) Option {
	return func(p *Projection) { p.navigate = fn }
}

// New seeds the projection from the current ledger snapshot, renders once,
// and subscribes for changes.
func New(ledger *cart.Ledger, renderer Renderer, opts ...Option) *Projection {
	p := &Projection{
		ledger:   ledger,
		renderer: renderer,
		lg:       zap.NewNop(),
		delay:    1500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = cart.NewLogNotifier(p.lg)
	}

	p.items = ledger.Items()
	p.render()
	p.sub = ledger.Subscribe(p.onEvent)
	return p
}

// onEvent replaces the local item list with the notified snapshot and
// re-renders every display target.
func (p *Projection) onEvent(evt cart.Event) {
	p.mu.Lock()
	p.items = evt.Items
	p.mu.Unlock()
	p.render()
}

func (p *Projection) render() {
	p.mu.Lock()
	count := len(p.items)
	total := cart.SubtotalOf(p.items)
	p.mu.Unlock()

	formatted := cart.FormatPrice(total)
	p.renderer.SetText(TargetSummary, fmt.Sprintf("%d items • Total: %s", count, formatted))
	p.renderer.SetText(TargetItemCount, strconv.Itoa(count))
	p.renderer.SetText(TargetSubtotal, formatted)
	p.renderer.SetText(TargetTotal, formatted)
	p.renderer.SetText(TargetCheckoutLabel, fmt.Sprintf("Checkout (%d)", count))
}

// ItemCount is the number of distinct entries in the mirrored snapshot.
func (p *Projection) ItemCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Subtotal is derived from the mirrored snapshot.
func (p *Projection) Subtotal() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cart.SubtotalOf(p.items)
}

// Discount is derived from the mirrored snapshot.
func (p *Projection) Discount() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cart.DiscountOf(p.items)
}

// Total equals Subtotal; discounts are already reflected in unit prices.
func (p *Projection) Total() decimal.Decimal {
	return p.Subtotal()
}

// RemoveItem deletes one entry via the ledger and confirms to the user when
// something was actually removed.
func (p *Projection) RemoveItem(ctx context.Context, id string) {
	if removed := p.ledger.Remove(ctx, id); removed != nil {
		p.notifier.Show("Item removed from cart", cart.NoticeSuccess)
	}
}

// ClearCart empties the ledger.
func (p *Projection) ClearCart(ctx context.Context) {
	p.ledger.Clear(ctx)
	p.notifier.Show("All items cleared from cart", cart.NoticeSuccess)
}

// IsProcessing reports whether a checkout is in flight.
func (p *Projection) IsProcessing() bool {
	return p.processing.Load()
}

// ProceedToCheckout runs the checkout flow: an empty cart aborts with a
// warning notice; otherwise the processing flag is raised across the
// simulated processing delay and the navigate hook fires on completion.
// The underlying cart may change while processing; the projection keeps
// re-rendering from notifications as they arrive.
func (p *Projection) ProceedToCheckout(ctx context.Context) error {
	if p.ItemCount() == 0 {
		p.notifier.Show("Your cart is empty!", cart.NoticeWarning)
		return ErrCartEmpty
	}
	if !p.processing.CompareAndSwap(false, true) {
		return ErrCheckoutInProgress
	}
	defer p.processing.Store(false)

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.notifier.Show("Redirecting to checkout...", cart.NoticeSuccess)
	if p.navigate != nil {
		p.navigate()
	}
	return nil
}

// Close cancels the ledger subscription. A closed projection receives no
// further events and can be discarded with its display targets.
func (p *Projection) Close() {
	p.sub.Cancel()
}
