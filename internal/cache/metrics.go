package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "willena_progress_cache_hits_total",
			Help: "Aggregate cache hits by freshness state.",
		},
		[]string{"state"},
	)
	missTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "willena_progress_cache_misses_total",
			Help: "Aggregate cache misses (first loads).",
		},
	)
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "willena_progress_cache_refresh_total",
			Help: "Background refresh outcomes.",
		},
		[]string{"result"},
	)
)
