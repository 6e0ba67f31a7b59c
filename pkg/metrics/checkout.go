package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the cart-to-order conversion, payment included when present
	CheckoutDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Latency of cart checkout requests",
		Buckets: prometheus.DefBuckets,
	})

	CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome",
	}, []string{"outcome"})

	PaymentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Payment attempts by method and resulting status",
	}, []string{"method", "status"})

	StockConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflicts_total",
		Help: "Reservations rejected because of insufficient stock",
	})
)

func Init() {
	prometheus.MustRegister(
		CheckoutDuration,
		CheckoutTotal,
		PaymentsTotal,
		StockConflicts,
	)
}
