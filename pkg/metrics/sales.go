package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// SaleMetrics records terminal activity: cart mutations and submitted sales.
type SaleMetrics struct {
	cartOps      *prometheus.CounterVec
	salesTotal   prometheus.Counter
	salesFailed  prometheus.Counter
	saleAmount   prometheus.Histogram
	openSessions prometheus.Gauge
}

// NewSaleMetrics registers the POS metrics on the provided registerer.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_cart_operations_total",
		Help: "Cart engine operations by kind.",
	}, []string{"op"})
	salesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_submitted_total",
		Help: "Sales submitted successfully.",
	})
	salesFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_failed_total",
		Help: "Sale submissions that returned an error.",
	})
	saleAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_sale_amount",
		Help:    "Distribution of submitted sale totals.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	openSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pos_open_sessions",
		Help: "Terminal sessions currently holding a cart.",
	})
	reg.MustRegister(cartOps, salesTotal, salesFailed, saleAmount, openSessions)
	return &SaleMetrics{
		cartOps:      cartOps,
		salesTotal:   salesTotal,
		salesFailed:  salesFailed,
		saleAmount:   saleAmount,
		openSessions: openSessions,
	}
}

// IncCartOp counts one engine operation.
func (m *SaleMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(op).Inc()
}

// ObserveSale records a successful submission and its total.
func (m *SaleMetrics) ObserveSale(total decimal.Decimal) {
	if m == nil || m.salesTotal == nil {
		return
	}
	m.salesTotal.Inc()
	amount, _ := total.Float64()
	m.saleAmount.Observe(amount)
}

// IncSaleFailure counts a failed submission.
func (m *SaleMetrics) IncSaleFailure() {
	if m == nil || m.salesFailed == nil {
		return
	}
	m.salesFailed.Inc()
}

// SessionOpened / SessionClosed track the live session gauge.
func (m *SaleMetrics) SessionOpened() {
	if m == nil || m.openSessions == nil {
		return
	}
	m.openSessions.Inc()
}

func (m *SaleMetrics) SessionClosed() {
	if m == nil || m.openSessions == nil {
		return
	}
	m.openSessions.Dec()
}
