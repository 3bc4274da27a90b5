package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "famichat_connected_clients",
		Help: "Number of currently connected WebSocket clients.",
	})
	broadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famichat_broadcasts_total",
		Help: "Total message broadcasts fanned out to all clients.",
	})
	botRepliesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famichat_bot_replies_total",
		Help: "Total auto-responder replies emitted.",
	})
	sendErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famichat_send_errors_total",
		Help: "Total chat.send requests rejected before broadcast.",
	})
)
