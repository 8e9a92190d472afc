package preview

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	showsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iconview_preview_shows_total",
			Help: "Preview cell requests by outcome (replay, resolved, fallback, none).",
		},
		[]string{"outcome"},
	)
	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iconview_preview_fallbacks_total",
			Help: "Failed lookups by error code and whether a last good resource was served.",
		},
		[]string{"reason", "served"},
	)
	reentrantTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iconview_preview_reentrant_total",
			Help: "Lookups short-circuited because the identity was already being resolved.",
		},
	)
)
