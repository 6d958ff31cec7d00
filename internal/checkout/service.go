package checkout

import (
	"context"
	"time"

	"github.com/quickbite-app/quickbite-backend/internal/cart"
	"github.com/quickbite-app/quickbite-backend/pkg/config"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/metrics"
	"github.com/quickbite-app/quickbite-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// Summary is the order-level breakdown shown on the cart screen. The grand
// total is subtotal plus the flat delivery fee minus the flat discount.
type Summary struct {
	TotalItems  int             `json:"total_items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	GrandTotal  decimal.Decimal `json:"grand_total"`

	FormattedSubtotal   string `json:"formatted_subtotal"`
	FormattedGrandTotal string `json:"formatted_grand_total"`
}

// Confirmation reports a placed order.
type Confirmation struct {
	PlacedAt   time.Time       `json:"placed_at"`
	TotalItems int             `json:"total_items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Service derives order totals and runs the place-order flow.
type Service interface {
	Summarize(store *cart.Store) Summary
	PlaceOrder(ctx context.Context, store *cart.Store) (Confirmation, error)
}

type service struct {
	fee      decimal.Decimal
	discount decimal.Decimal
	delay    time.Duration
	metrics  *metrics.CartMetrics
}

// NewService builds a checkout service from the configured constants.
func NewService(cfg config.CheckoutConfig, cartMetrics *metrics.CartMetrics) Service {
	return &service{
		fee:      cfg.DeliveryFeeAmount(),
		discount: cfg.DiscountAmount(),
		delay:    cfg.PlaceOrderDelay,
		metrics:  cartMetrics,
	}
}

// Summarize derives the totals from the current cart snapshot.
func (s *service) Summarize(store *cart.Store) Summary {
	snap := store.Snapshot()
	return s.summarize(snap)
}

func (s *service) summarize(snap cart.Snapshot) Summary {
	grand := snap.TotalPrice.Add(s.fee).Sub(s.discount)
	return Summary{
		TotalItems:          snap.TotalItems,
		Subtotal:            snap.TotalPrice,
		DeliveryFee:         s.fee,
		Discount:            s.discount,
		GrandTotal:          grand,
		FormattedSubtotal:   money.Format(snap.TotalPrice),
		FormattedGrandTotal: money.Format(grand),
	}
}

// PlaceOrder waits the configured confirmation delay, then clears the cart
// and reports the confirmation. Canceling the context during the delay
// aborts the placement and leaves the cart intact. There is no real
// submission upstream yet; the delay stands in for it.
func (s *service) PlaceOrder(ctx context.Context, store *cart.Store) (Confirmation, error) {
	snap := store.Snapshot()
	if snap.TotalItems == 0 {
		return Confirmation{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	summary := s.summarize(snap)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Confirmation{}, ctx.Err()
		case <-timer.C:
		}
	}

	store.Clear()
	s.metrics.IncOrderPlaced(len(snap.Items))

	return Confirmation{
		PlacedAt:   time.Now().UTC(),
		TotalItems: summary.TotalItems,
		GrandTotal: summary.GrandTotal,
	}, nil
}
