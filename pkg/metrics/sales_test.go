package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()

	ch := make(chan prometheus.Metric, 8)
	c.Collect(ch)
	close(ch)

	var total float64
	for m := range ch {
		var out dto.Metric
		if err := m.Write(&out); err != nil {
			t.Fatalf("write metric: %v", err)
		}
		if out.Counter != nil {
			total += out.Counter.GetValue()
		}
		if out.Gauge != nil {
			total += out.Gauge.GetValue()
		}
	}
	return total
}

func TestSaleMetricsCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewSaleMetrics(reg)

	m.IncCartOp("add_item")
	m.IncCartOp("add_item")
	m.ObserveSale(decimal.RequireFromString("42.50"))
	m.IncSaleFailure()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	if got := counterValue(t, m.cartOps); got != 2 {
		t.Fatalf("cart ops = %v, want 2", got)
	}
	if got := counterValue(t, m.salesTotal); got != 1 {
		t.Fatalf("sales = %v, want 1", got)
	}
	if got := counterValue(t, m.salesFailed); got != 1 {
		t.Fatalf("failures = %v, want 1", got)
	}
	if got := counterValue(t, m.openSessions); got != 1 {
		t.Fatalf("open sessions = %v, want 1", got)
	}
}

func TestSaleMetricsNilRegistererIsInert(t *testing.T) {
	t.Parallel()

	m := NewSaleMetrics(nil)
	m.IncCartOp("noop")
	m.ObserveSale(decimal.Zero)
	m.IncSaleFailure()
	m.SessionOpened()
	m.SessionClosed()
}
