package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of requests being served",
		},
	)

	LikesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_likes_total",
			Help: "Like and unlike attempts by result",
		},
		[]string{"result"},
	)

	FollowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_follows_total",
			Help: "Follow and unfollow attempts by result",
		},
		[]string{"result"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_notifications_total",
			Help: "Notifications appended, by verb",
		},
		[]string{"verb"},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		LikesTotal,
		FollowsTotal,
		NotificationsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
