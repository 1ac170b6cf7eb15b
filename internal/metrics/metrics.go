package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the POS counters exposed on /metrics.
type Metrics struct {
	salesCompleted   prometheus.Counter
	saleAmount       prometheus.Histogram
	checkoutDuration prometheus.Histogram

	stockDecrementFailures prometheus.Counter
	catalogUpdates         *prometheus.CounterVec
	saleEvents             *prometheus.CounterVec
	cacheRequests          *prometheus.CounterVec
	loginFailures          prometheus.Counter
	activeSessions         prometheus.Gauge
}

func New() *Metrics {
	return newWithRegisterer(prometheus.DefaultRegisterer)
}

func newWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		salesCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_sales_completed_total",
			Help: "Total number of completed sales.",
		}),
		saleAmount: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pos_sale_amount_minor",
			Help:    "Gross sale totals in minor currency units.",
			Buckets: []float64{200, 500, 1000, 2500, 5000, 10000, 25000, 50000},
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "pos_checkout_duration_seconds",
			Help:    "Duration of the checkout write sequence in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		stockDecrementFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_stock_decrement_failures_total",
			Help: "Stock decrements that failed after the sale was recorded.",
		}),
		catalogUpdates: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pos_catalog_updates_total",
			Help: "Catalog feed messages grouped by outcome.",
		}, []string{"outcome"}),
		saleEvents: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pos_sale_events_total",
			Help: "Sale event publishes grouped by outcome.",
		}, []string{"outcome"}),
		cacheRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "pos_product_cache_requests_total",
			Help: "Product cache lookups grouped by result.",
		}, []string{"result"}),
		loginFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "pos_login_failures_total",
			Help: "Rejected login attempts.",
		}),
		activeSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "pos_active_sessions",
			Help: "Cashier sessions currently alive.",
		}),
	}
}

func (m *Metrics) RecordSale(totalMinor int64, took time.Duration) {
	m.salesCompleted.Inc()
	m.saleAmount.Observe(float64(totalMinor))
	m.checkoutDuration.Observe(took.Seconds())
}

func (m *Metrics) RecordStockDecrementFailure() {
	m.stockDecrementFailures.Inc()
}

func (m *Metrics) RecordCatalogUpdate(outcome string) {
	m.catalogUpdates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSaleEvent(outcome string) {
	m.saleEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCacheHit()  { m.cacheRequests.WithLabelValues("hit").Inc() }
func (m *Metrics) RecordCacheMiss() { m.cacheRequests.WithLabelValues("miss").Inc() }

func (m *Metrics) RecordLoginFailure() { m.loginFailures.Inc() }

func (m *Metrics) SetActiveSessions(n int) { m.activeSessions.Set(float64(n)) }

// Registration helpers reuse an already-registered collector instead of
// failing, so tests and restarts can call New repeatedly.

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
				return existing
			}
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Gauge); ok {
				return existing
			}
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Histogram); ok {
				return existing
			}
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
