// Package metrics defines the feed's domain counters. HTTP request metrics
// come from echoprometheus; these count what the requests achieved.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feed"

// Metrics holds the counters. Construct one per registry with New.
type Metrics struct {
	// SignupsTotal counts signup attempts.
	// Label result: "created", "invalid", "conflict", "error".
	SignupsTotal *prometheus.CounterVec

	// LoginsTotal counts login attempts.
	// Label result: "success", "invalid_credentials", "error".
	LoginsTotal *prometheus.CounterVec

	// PostsCreatedTotal counts published posts.
	PostsCreatedTotal prometheus.Counter

	// LikesToggledTotal counts like toggles.
	// Label action: "like" or "unlike".
	LikesToggledTotal *prometheus.CounterVec

	// PostDeletesTotal counts delete requests.
	// Label result: "deleted", "forbidden", "error".
	PostDeletesTotal *prometheus.CounterVec
}

// New registers the counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SignupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Total number of signup attempts, by result.",
		}, []string{"result"}),
		LoginsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by result.",
		}, []string{"result"}),
		PostsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_created_total",
			Help:      "Total number of posts created.",
		}),
		LikesToggledTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "likes_toggled_total",
			Help:      "Total number of like toggles, by resulting action.",
		}, []string{"action"}),
		PostDeletesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_deletes_total",
			Help:      "Total number of post delete requests, by result.",
		}, []string{"result"}),
	}
}

// Nop returns counters registered nowhere, for tests.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
