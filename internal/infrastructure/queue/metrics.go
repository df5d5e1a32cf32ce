package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery results.
const (
	resultSent    = "sent"
	resultFailed  = "failed"
	resultDropped = "dropped"
)

// notificationsTotal counts notifications by purpose and result. "dropped"
// means Send refused the message (queue full or closed); "sent" and "failed"
// are the sink's verdict.
var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bookstore",
		Name:      "notifications_total",
		Help:      "Total number of notification deliveries, by purpose and result.",
	},
	[]string{"purpose", "result"},
)
