// Package metrics exposes prometheus instrumentation for the booking core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for booking and cancellation flows.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	bookingDuration    prometheus.Histogram
	cancellationsTotal *prometheus.CounterVec
	paymentsTotal      *prometheus.CounterVec
}

// NewBookingMetrics registers the booking metric set. A nil registerer uses
// the default prometheus registry.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightcare",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		bookingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brightcare",
			Subsystem: "booking",
			Name:      "duration_seconds",
			Help:      "Latency of the booking operation",
			Buckets:   prometheus.DefBuckets,
		}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightcare",
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Total cancellation attempts by refund tier or failure reason",
		}, []string{"tier"}),
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightcare",
			Subsystem: "booking",
			Name:      "payment_attempts_total",
			Help:      "Total pre-payment attempts by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.bookingDuration, m.cancellationsTotal, m.paymentsTotal)
	return m
}

// ObserveBooking records one booking attempt.
func (m *BookingMetrics) ObserveBooking(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
	m.bookingDuration.Observe(seconds)
}

// ObserveCancellation records one cancellation attempt.
func (m *BookingMetrics) ObserveCancellation(tier string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(tier).Inc()
}

// ObservePayment records one pre-payment attempt.
func (m *BookingMetrics) ObservePayment(success bool) {
	if m == nil {
		return
	}
	status := "failed"
	if success {
		status = "succeeded"
	}
	m.paymentsTotal.WithLabelValues(status).Inc()
}
