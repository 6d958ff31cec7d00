package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations and placed orders.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	orders    prometheus.Counter
	lineItems prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart store mutations by operation.",
	}, []string{"op"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed through checkout.",
	})
	lineItems := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_line_items",
		Help:    "Distinct line items per placed order.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
	reg.MustRegister(mutations, orders, lineItems)
	return &CartMetrics{
		mutations: mutations,
		orders:    orders,
		lineItems: lineItems,
	}
}

// IncMutation increments the counter for the named cart operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	c.mutations.WithLabelValues(op).Inc()
}

// IncOrderPlaced records a completed checkout with its line item count.
func (c *CartMetrics) IncOrderPlaced(lineItems int) {
	if c == nil || c.orders == nil {
		return
	}
	c.orders.Inc()
	c.lineItems.Observe(float64(lineItems))
}
