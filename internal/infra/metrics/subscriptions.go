package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionOpsTotal,
		subscriptionsTotal,
	)
}

var (
	subscriptionOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_ops_total",
			Help: "Subscription lifecycle operations by kind.",
		},
		[]string{"op"}, // 'create', 'extend', 'pause', 'resume', 'cancel', 'delete'
	)

	subscriptionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subscriptions_total",
			Help: "Current number of subscriptions by state.",
		},
		[]string{"state"}, // 'running', 'paused', 'expired', 'stopped'
	)
)

func IncSubscriptionOp(op string) {
	subscriptionOpsTotal.WithLabelValues(norm(op)).Inc()
}

// SetSubscriptionsTotal refreshes the gauge from a state->count snapshot.
func SetSubscriptionsTotal(counts map[string]int) {
	for state, count := range counts {
		subscriptionsTotal.WithLabelValues(norm(state)).Set(float64(count))
	}
}
