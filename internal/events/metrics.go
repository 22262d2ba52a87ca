package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// result is one of: hit (reuse window), fetch (went to the source),
// shared (joined an in-flight fetch), error.
var fetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "willena_event_fetch_total",
		Help: "Raw event-row fetches by section and outcome.",
	},
	[]string{"section", "result"},
)
