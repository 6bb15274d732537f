package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	broadcastMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Per-recipient broadcast outcomes by audience.",
		},
		[]string{"audience", "outcome"}, // outcome: 'sent', 'failed'
	)

	broadcastDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "broadcast_duration_seconds",
			Help:    "Wall time of a full broadcast fan-out.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"audience"},
	)
)

func init() {
	register(broadcastMessagesTotal, broadcastDurationSeconds)
}

func AddBroadcastOutcomes(audience string, sent, failed int) {
	broadcastMessagesTotal.WithLabelValues(norm(audience), "sent").Add(float64(sent))
	broadcastMessagesTotal.WithLabelValues(norm(audience), "failed").Add(float64(failed))
}

func ObserveBroadcastDuration(audience string, seconds float64) {
	broadcastDurationSeconds.WithLabelValues(norm(audience)).Observe(seconds)
}
