package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitclub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_bookings_total",
			Help: "Total number of class bookings by initial status",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_booking_cancellations_total",
			Help: "Total number of booking cancellations by previous status",
		},
		[]string{"previous_status"},
	)

	WaitlistPromotionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_waitlist_promotions_total",
			Help: "Total number of waitlisted bookings promoted to confirmed",
		},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_check_ins_total",
			Help: "Total number of gym check-in events",
		},
		[]string{"event"},
	)

	VisitDurationMinutes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fitclub_visit_duration_minutes",
			Help:    "Duration of closed gym visits in minutes",
			Buckets: []float64{15, 30, 45, 60, 90, 120, 180, 240},
		},
	)

	WorkoutSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_workout_sessions_total",
			Help: "Total number of workout session transitions",
		},
		[]string{"status"},
	)

	WorkoutSetsLoggedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_workout_sets_logged_total",
			Help: "Total number of workout sets logged",
		},
	)

	MembershipUpgradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_membership_upgrades_total",
			Help: "Total number of membership plan changes",
		},
		[]string{"from", "to"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitclub_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"routing_key", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation(previousStatus string) {
	BookingCancellationsTotal.WithLabelValues(previousStatus).Inc()
}

func RecordWaitlistPromotion() {
	WaitlistPromotionsTotal.Inc()
}

func RecordCheckIn() {
	CheckInsTotal.WithLabelValues("check_in").Inc()
}

func RecordCheckOut(durationMinutes int) {
	CheckInsTotal.WithLabelValues("check_out").Inc()
	VisitDurationMinutes.Observe(float64(durationMinutes))
}

func RecordWorkoutSession(status string) {
	WorkoutSessionsTotal.WithLabelValues(status).Inc()
}

func RecordWorkoutSet() {
	WorkoutSetsLoggedTotal.Inc()
}

func RecordMembershipUpgrade(from, to string) {
	MembershipUpgradesTotal.WithLabelValues(from, to).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordEvent(routingKey, status string) {
	EventsPublishedTotal.WithLabelValues(routingKey, status).Inc()
}
