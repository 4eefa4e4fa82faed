// Package metrics provides Prometheus instrumentation for the FriendsCore
// realtime backend: gauges for connection counts, counters for message and
// notification fan-out outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OnlineUsers tracks distinct users connected on the presence topic.
	OnlineUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "friendscore_online_users",
		Help: "Current number of users online on the presence topic",
	})

	// Connections tracks live WebSocket connections per topic.
	Connections = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "friendscore_connections",
		Help: "Current number of live WebSocket connections",
	}, []string{"topic"})

	// MessagesTotal counts chat messages by delivery outcome:
	// "delivered" (receiver was online) or "queued" (left in Sent state).
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friendscore_messages_total",
		Help: "Total chat messages processed by delivery outcome",
	}, []string{"outcome"})

	// NotificationPushes counts best-effort notification pushes:
	// "pushed" (owner had a live connection) or "missed".
	NotificationPushes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "friendscore_notification_pushes_total",
		Help: "Total notification push attempts by outcome",
	}, []string{"outcome"})

	// StatsBroadcasts counts stats snapshot recomputations.
	StatsBroadcasts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "friendscore_stats_broadcasts_total",
		Help: "Total stats snapshot broadcasts",
	})
)

// Register registers all collectors with the default registry.
func Register() {
	prometheus.MustRegister(
		OnlineUsers,
		Connections,
		MessagesTotal,
		NotificationPushes,
		StatsBroadcasts,
	)
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
