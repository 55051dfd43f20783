package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registerAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quirk_register_attempts_total",
		Help: "Number of registration attempts grouped by status.",
	}, []string{"status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quirk_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	oauthLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quirk_oauth_logins_total",
		Help: "Number of OAuth logins grouped by provider and status.",
	}, []string{"provider", "status"})

	tweetsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quirk_tweets_created_total",
		Help: "Number of tweets created.",
	})

	likeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quirk_like_events_total",
		Help: "Number of like/unlike operations grouped by action.",
	}, []string{"action"})

	followEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quirk_follow_events_total",
		Help: "Number of follow/unfollow operations grouped by action.",
	}, []string{"action"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quirk_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncRegister increments the registration counter.
func IncRegister(status string) {
	registerAttempts.WithLabelValues(status).Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncOAuth increments the OAuth login counter.
func IncOAuth(provider, status string) {
	oauthLogins.WithLabelValues(provider, status).Inc()
}

// IncTweetCreated increments the tweet creation counter.
func IncTweetCreated() {
	tweetsCreated.Inc()
}

// IncLike increments the like event counter.
func IncLike(action string) {
	likeEvents.WithLabelValues(action).Inc()
}

// IncFollow increments the follow event counter.
func IncFollow(action string) {
	followEvents.WithLabelValues(action).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
