package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the booking core collectors.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	PaymentsProcessed *prometheus.CounterVec
	BookingsReleased  *prometheus.CounterVec
	LoyaltyPoints     prometheus.Counter
	Failures          *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created in pending state",
		}),
		PaymentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_processed_total",
			Help:      "The total number of completed payments",
		}, []string{"method"}),
		BookingsReleased: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_released_total",
			Help:      "The total number of bookings that released their seats",
		}, []string{"status"}),
		LoyaltyPoints: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loyalty_points_awarded_total",
			Help:      "The total number of loyalty points accrued",
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_failures_total",
			Help:      "The total number of failed booking operations",
		}, []string{"operation", "kind"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time taken by booking operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
