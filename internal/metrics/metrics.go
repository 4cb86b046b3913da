package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	codesIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_codes_issued_total",
			Help: "Total number of verification codes issued",
		},
	)

	verifyAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verify_attempts_total",
			Help: "Total number of verification attempts by outcome",
		},
		[]string{"outcome"},
	)

	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_deliveries_total",
			Help: "Total number of delivery attempts by result",
		},
		[]string{"result"},
	)

	sendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "otp_send_duration_seconds",
			Help:    "End-to-end send-otp handling duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_rate_limited_total",
			Help: "Total number of send requests rejected by the rate limiter",
		},
	)
)

func RecordIssued() {
	codesIssuedTotal.Inc()
}

// RecordVerify outcome is one of: verified, not_found, expired, mismatch.
func RecordVerify(outcome string) {
	verifyAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordDelivery result is one of: sent, fallback, failed.
func RecordDelivery(result string) {
	deliveriesTotal.WithLabelValues(result).Inc()
}

func RecordSendDuration(d time.Duration) {
	sendDuration.Observe(d.Seconds())
}

func RecordRateLimited() {
	rateLimitedTotal.Inc()
}

// Handler exposes the registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
