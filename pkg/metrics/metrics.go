package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postline", Name: "logins_total", Help: "Number of login attempts by outcome."},
		[]string{"outcome"},
	)
	TokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postline", Name: "token_refreshes_total", Help: "Number of refresh rotations by outcome."},
		[]string{"outcome"},
	)
	TokensRevoked = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postline", Name: "tokens_revoked_total", Help: "Number of access tokens blocklisted by reason."},
		[]string{"reason"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postline", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "postline", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(Logins, TokenRefreshes, TokensRevoked, RateLimitAllowed, RateLimitRejected)
}
