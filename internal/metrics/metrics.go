package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters the application maintains.
type Metrics struct {
	Logins             prometheus.Counter
	Registrations      prometheus.Counter
	BookingsCreated    prometheus.Counter
	BookingTransitions *prometheus.CounterVec // labeled by target status
	ReviewsSubmitted   prometheus.Counter
	RateLimited        *prometheus.CounterVec // labeled by route
}

// NewMetrics registers the application counters with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Logins: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "anha_logins_total",
			Help: "Total number of successful logins",
		}),
		Registrations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "anha_registrations_total",
			Help: "Total number of self-registrations",
		}),
		BookingsCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "anha_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		BookingTransitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "anha_booking_transitions_total",
			Help: "Booking status transitions by target status",
		}, []string{"status"}),
		ReviewsSubmitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "anha_reviews_submitted_total",
			Help: "Total number of reviews submitted",
		}),
		RateLimited: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "anha_rate_limited_total",
			Help: "Requests rejected by the rate limiter, by route",
		}, []string{"route"}),
	}
}
