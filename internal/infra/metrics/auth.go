package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		authAttemptsTotal,
		refreshTokensSweptTotal,
	)
}

var (
	authAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Login and refresh attempts by result.",
		},
		[]string{"kind", "result"}, // kind='login'|'refresh', result='ok'|'rejected'|'error'
	)

	refreshTokensSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_tokens_swept_total",
			Help: "Stale refresh tokens removed by the sweeper.",
		},
	)
)

func IncAuthAttempt(kind, result string) {
	authAttemptsTotal.WithLabelValues(norm(kind), norm(result)).Inc()
}

func AddRefreshTokensSwept(count int) {
	refreshTokensSweptTotal.Add(float64(count))
}
