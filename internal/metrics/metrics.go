package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DrawDuration tracks the latency of prize draws, labelled by outcome.
	DrawDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prize_draw_duration_seconds",
			Help:    "Duration of prize draw operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"result"}, // success or failed
	)

	// DrawsTotal counts prize draw operations by outcome.
	DrawsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prize_draws_total",
			Help: "Total number of prize draw operations",
		},
		[]string{"result"},
	)

	// ClaimsSweptTotal counts pending claims auto-declined by the expiration
	// sweep.
	ClaimsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prize_claims_swept_total",
			Help: "Total number of expired pending claims auto-declined",
		},
	)

	// KeysImportedTotal counts redemption keys added to key-code prizes.
	KeysImportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prize_keys_imported_total",
			Help: "Total number of redemption keys imported",
		},
	)
)

// RecordDraw records one draw operation's outcome and duration.
func RecordDraw(result string, seconds float64) {
	DrawDuration.WithLabelValues(result).Observe(seconds)
	DrawsTotal.WithLabelValues(result).Inc()
}
