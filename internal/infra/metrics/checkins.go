package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(checkInsTotal) }

var checkInsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkins_total",
		Help: "Check-in attempts by outcome.",
	},
	[]string{"outcome"}, // 'accepted', 'already_checked_in', 'outside_non_peak', ...
)

func IncCheckIn(outcome string) {
	checkInsTotal.WithLabelValues(norm(outcome)).Inc()
}
